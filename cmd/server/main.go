package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tmcgann/errand-manager/internal/config"
	"github.com/tmcgann/errand-manager/internal/database"
	"github.com/tmcgann/errand-manager/internal/handlers"
	"github.com/tmcgann/errand-manager/internal/repository"
	"github.com/tmcgann/errand-manager/internal/services"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"github.com/tmcgann/errand-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
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
	projectRepo := repository.NewProjectRepository(db)
	errandRepo := repository.NewErrandRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(userRepo)
	projectService := services.NewProjectService(projectRepo, errandRepo, userRepo)
	errandService := services.NewErrandService(errandRepo, projectRepo, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService)
	projectHandler := handlers.NewProjectHandler(projectService)
	errandHandler := handlers.NewErrandHandler(errandService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public user routes
	api.HandleFunc("/user/register", userHandler.RegisterUserHandler).Methods("POST")
	api.HandleFunc("/user/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes (literal paths before the {id} variable)
	protectedUserRoutes := api.PathPrefix("/user").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/all", userHandler.GetAllUsersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/detail", userHandler.GetUserDetailHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/sendrequest/{id}", friendHandler.SendRequestHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/acceptrequest/{id}", friendHandler.AcceptRequestHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/declinerequest/{id}", friendHandler.DeclineRequestHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/unfriend/{id}", friendHandler.UnfriendHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")

	// Project routes
	protectedProjectRoutes := api.PathPrefix("/project").Subrouter()
	protectedProjectRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedProjectRoutes.HandleFunc("/create", projectHandler.CreateProjectHandler).Methods("POST")
	protectedProjectRoutes.HandleFunc("/all", projectHandler.GetAllProjectsHandler).Methods("GET")
	protectedProjectRoutes.HandleFunc("/author/{userid}", projectHandler.GetAuthorProjectsHandler).Methods("GET")
	protectedProjectRoutes.HandleFunc("/member/{userid}", projectHandler.GetMemberProjectsHandler).Methods("GET")
	protectedProjectRoutes.HandleFunc("/{id}", projectHandler.GetProjectHandler).Methods("GET")
	protectedProjectRoutes.HandleFunc("/{id}/update", projectHandler.UpdateProjectHandler).Methods("PUT")
	protectedProjectRoutes.HandleFunc("/{id}/addmember", projectHandler.AddMemberHandler).Methods("PUT")
	protectedProjectRoutes.HandleFunc("/{id}/removemember", projectHandler.RemoveMemberHandler).Methods("PUT")
	protectedProjectRoutes.HandleFunc("/{id}/removeself", projectHandler.RemoveSelfHandler).Methods("PUT")
	protectedProjectRoutes.HandleFunc("/{id}/delete", projectHandler.DeleteProjectHandler).Methods("DELETE")

	// Errand routes
	protectedErrandRoutes := api.PathPrefix("/errand").Subrouter()
	protectedErrandRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedErrandRoutes.HandleFunc("/create", errandHandler.CreateErrandHandler).Methods("POST")
	protectedErrandRoutes.HandleFunc("/all", errandHandler.GetAllErrandsHandler).Methods("GET")
	protectedErrandRoutes.HandleFunc("/user/{userid}/all", errandHandler.GetAllUserErrandsHandler).Methods("GET")
	protectedErrandRoutes.HandleFunc("/user/{userid}", errandHandler.GetUserErrandsHandler).Methods("GET")
	protectedErrandRoutes.HandleFunc("/project/{projectid}", errandHandler.GetProjectErrandsHandler).Methods("GET")
	protectedErrandRoutes.HandleFunc("/{id}", errandHandler.GetErrandHandler).Methods("GET")
	protectedErrandRoutes.HandleFunc("/{id}/update", errandHandler.UpdateErrandHandler).Methods("PUT")
	protectedErrandRoutes.HandleFunc("/{id}/toggle", errandHandler.ToggleErrandHandler).Methods("PUT")
	protectedErrandRoutes.HandleFunc("/{id}/delete", errandHandler.DeleteErrandHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"x-auth-token", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(srv.ListenAndServe())
}
