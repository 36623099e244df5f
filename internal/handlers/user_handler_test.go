package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Manakin-Wraith/MyJubilee/internal/config"
	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/Manakin-Wraith/MyJubilee/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type stubUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (s *stubUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	stored.ID = primitive.NewObjectID()
	s.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *stubUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *user
	return &out, nil
}

func (s *stubUserStore) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubUserStore) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *user
	return &out, nil
}

var _ services.UserStore = (*stubUserStore)(nil)

func newUserFixture() (*UserHandler, *stubUserStore) {
	store := &stubUserStore{users: make(map[primitive.ObjectID]*models.User)}
	svc := services.NewUserService(store, "https://myjubilee.app", func(to, subject, body string) error {
		return nil
	})
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpiry: time.Hour}
	return NewUserHandler(svc, cfg), store
}

func TestRegisterUserHandler(t *testing.T) {
	handler, store := newUserFixture()

	body := `{"username":"jane","email":"jane@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.RegisterUserHandler(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.PublicUser
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "jane", created.Username)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.NotContains(t, rr.Body.String(), "hunter22")

	// The password field of the request body ends up as a bcrypt hash in
	// the stored account.
	require.Len(t, store.users, 1)
	for _, user := range store.users {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("hunter22")))
	}
}

func TestRegisterUserHandlerMissingPassword(t *testing.T) {
	handler, store := newUserFixture()

	body := `{"username":"jane","email":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.RegisterUserHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, store.users)
}

func TestRegisterThenLogin(t *testing.T) {
	handler, _ := newUserFixture()

	register := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"username":"jane","email":"jane@example.com","password":"hunter22"}`))
	rr := httptest.NewRecorder()
	handler.RegisterUserHandler(rr, register)
	require.Equal(t, http.StatusCreated, rr.Code)

	login := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"jane@example.com","password":"hunter22"}`))
	rr = httptest.NewRecorder()
	handler.LoginUserHandler(rr, login)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Token)
}
