package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Manakin-Wraith/MyJubilee/internal/config"
	"github.com/Manakin-Wraith/MyJubilee/internal/database"
	"github.com/Manakin-Wraith/MyJubilee/internal/handlers"
	"github.com/Manakin-Wraith/MyJubilee/internal/jobs"
	"github.com/Manakin-Wraith/MyJubilee/internal/repository"
	cronjobs "github.com/Manakin-Wraith/MyJubilee/internal/scheduler"
	"github.com/Manakin-Wraith/MyJubilee/internal/services"
	"github.com/Manakin-Wraith/MyJubilee/internal/subscription"
	"github.com/Manakin-Wraith/MyJubilee/pkg/logger"
	"github.com/Manakin-Wraith/MyJubilee/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.AppOrigin, nil)
	wishlistService := services.NewWishlistService(wishlistRepo)
	shareService := services.NewShareService(wishlistRepo, cfg.AppOrigin)

	// Live owner-list subscriptions over the wishlist change stream
	hub := subscription.NewHub(wishlistRepo, subscription.WatcherFunc(
		func(ctx context.Context, userID primitive.ObjectID) (subscription.ChangeStream, error) {
			return wishlistRepo.Watch(ctx, userID)
		}))

	// Daily stale-wishlist reminders
	notifier := jobs.NewStaleListNotifier(wishlistService, userService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	shareHandler := handlers.NewShareHandler(shareService, wishlistService)
	streamHandler := handlers.NewWishlistStreamHandler(hub, cfg.JWTSecret)
	adminHandler := handlers.NewAdminHandler(notifier)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")
	router.HandleFunc("/users/request-password-reset", userHandler.RequestPasswordResetHandler).Methods("POST")
	router.HandleFunc("/users/reset-password", userHandler.ResetPasswordHandler).Methods("POST")

	// Shared read-only view: no authentication, the wishlist id in the
	// sharedList query parameter is the whole access model
	router.HandleFunc("/shared", shareHandler.SharedListHandler).Methods("GET")

	// Live wishlist snapshots (token passed as query param on the handshake)
	router.HandleFunc("/ws/wishlists", streamHandler.StreamWishlistsHandler)

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Wishlist routes
	protectedWishlistRoutes := router.PathPrefix("/wishlists").Subrouter()
	protectedWishlistRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedWishlistRoutes.HandleFunc("", wishlistHandler.CommitDraftHandler).Methods("POST")
	protectedWishlistRoutes.HandleFunc("", wishlistHandler.GetWishlistsHandler).Methods("GET")
	protectedWishlistRoutes.HandleFunc("/{id}", wishlistHandler.GetWishlistHandler).Methods("GET")
	protectedWishlistRoutes.HandleFunc("/{id}", wishlistHandler.DeleteWishlistHandler).Methods("DELETE")
	protectedWishlistRoutes.HandleFunc("/{id}/items", wishlistHandler.AddItemHandler).Methods("POST")
	protectedWishlistRoutes.HandleFunc("/{id}/items/{itemId}", wishlistHandler.UpdateItemHandler).Methods("PUT")
	protectedWishlistRoutes.HandleFunc("/{id}/items/{itemId}", wishlistHandler.RemoveItemHandler).Methods("DELETE")
	protectedWishlistRoutes.HandleFunc("/{id}/share", shareHandler.GetShareLinkHandler).Methods("GET")

	// Admin-only operational routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/reminders/run", adminHandler.RunReminderScanHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	cronjobs.StartReminderCronJobs(notifier)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
