package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/Manakin-Wraith/MyJubilee/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailSender delivers one message; email.SendEmail in production.
type EmailSender func(to, subject, body string) error

// UserService encapsulates the business logic for user accounts: sign-up
// with email verification, login, and password reset.
type UserService struct {
	repo      UserStore
	origin    string
	sendEmail EmailSender
}

// NewUserService creates a new instance of UserService. origin is the public
// base URL used in verification and reset links; a nil sender falls back to
// SMTP delivery.
func NewUserService(repo UserStore, origin string, sender EmailSender) *UserService {
	if sender == nil {
		sender = email.SendEmail
	}
	return &UserService{
		repo:      repo,
		origin:    origin,
		sendEmail: sender,
	}
}

// RegisterUser registers a new user after hashing their password and mails
// out a verification link.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		return nil, fmt.Errorf("%w: missing required user fields", ErrValidation)
	}
	if !emailRegex.MatchString(user.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	existing, _ := s.repo.GetUserByEmail(ctx, user.Email)
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", ErrValidation)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.HashedPassword = string(hashedPwd)
	if user.Role == "" {
		user.Role = "user"
	}
	user.VerifyToken = uuid.NewString()
	user.IsVerified = false

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	link := fmt.Sprintf("%s/users/verify?token=%s", s.origin, created.VerifyToken)
	body := fmt.Sprintf("Welcome to MyJubilee!\n\nPlease verify your email by clicking the link below:\n%s", link)
	if err := s.sendEmail(created.Email, "Email Verification", body); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return nil, fmt.Errorf("failed to send verification email")
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser checks credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return user, nil
}

// VerifyEmail marks the account behind a verification token as verified and
// burns the token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: invalid or expired verification token", ErrNotFound)
	}

	update := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
		"updated_at":   time.Now(),
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update user verification status: %v", err)
	}
	return nil
}

// RequestPasswordReset issues a short-lived reset token and mails a reset link.
// An unknown email is reported to the caller as success so the endpoint does
// not leak which addresses have accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		logrus.WithField("email", emailAddr).Warn("Password reset requested for unknown email")
		return nil
	}

	token := uuid.NewString()
	update := map[string]interface{}{
		"reset_token":      token,
		"reset_expires_at": time.Now().Add(1 * time.Hour),
		"updated_at":       time.Now(),
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to store reset token: %v", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.origin, token)
	body := fmt.Sprintf("A password reset was requested for your MyJubilee account.\n\nReset your password here:\n%s\n\nThe link expires in one hour.", link)
	if err := s.sendEmail(user.Email, "Password Reset", body); err != nil {
		logrus.WithError(err).Error("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email")
	}
	return nil
}

// ResetPassword sets a new password for the account behind a valid,
// unexpired reset token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}

	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: invalid reset token", ErrNotFound)
	}
	if time.Now().After(user.ResetExpiresAt) {
		return fmt.Errorf("%w: reset token expired", ErrNotFound)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	update := map[string]interface{}{
		"hashed_password":  string(hashedPwd),
		"reset_token":      "",
		"reset_expires_at": time.Time{},
		"updated_at":       time.Now(),
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to reset password: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Password reset completed")
	return nil
}

// GetUser fetches a user by hex id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}

// UpdateProfile changes the display name of an account.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
	}

	update := map[string]interface{}{
		"username":   username,
		"updated_at": time.Now(),
	}
	updated, err := s.repo.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
