package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "clinicbook/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"clinicbook/internal/auth"
	"clinicbook/internal/cache"
	"clinicbook/internal/config"
	"clinicbook/internal/db"
	"clinicbook/internal/handler"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
	"clinicbook/internal/router"
	"clinicbook/internal/service"
)

// @title Clinicbook API
// @version 1.0
// @description Doctors and appointments API with slot-capacity booking and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Appointment{},
			&model.Doctor{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Doctor{},
		&model.Appointment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	doctorRepo := repository.NewDoctorRepository(gormDB)
	appointmentRepo := repository.NewAppointmentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	doctorService := service.NewDoctorService(doctorRepo, appointmentRepo, cacheClient)
	bookingService := service.NewBookingService(appointmentRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	doctorHandler := handler.NewDoctorHandler(doctorService)
	appointmentHandler := handler.NewAppointmentHandler(bookingService)

	// Register routes
	router.Register(e, cfg, authHandler, userHandler, doctorHandler, appointmentHandler)

	// Bootstrap an admin account when configured, so a fresh deployment has
	// at least one principal that can reach the admin endpoints.
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		bootstrapAdmin(authService, cfg)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func bootstrapAdmin(authService service.AuthService, cfg *config.Config) {
	_, _, err := authService.CreateUser(context.Background(), service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			Username:  cfg.AdminUsername,
			Password:  cfg.AdminPassword,
			FirstName: "Admin",
			LastName:  "User",
			Email:     cfg.AdminUsername + "@localhost",
		},
		Role: string(auth.RoleAdmin),
	})
	if err != nil {
		// duplicate on restart is expected
		log.Printf("admin bootstrap: %v", err)
		return
	}
	log.Printf("admin user %q created", cfg.AdminUsername)
}
