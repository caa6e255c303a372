package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clinicbook/internal/auth"
	"clinicbook/internal/config"
	"clinicbook/internal/handler"
	appmw "clinicbook/internal/middleware"
)

const storeCallTimeout = 10 * time.Second

// Register wires routes and middleware. Authorization is evaluated entirely
// in middleware, before any handler runs.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", appmw.RequestTimeout(storeCallTimeout))

	// Public routes; credential endpoints are rate limited per client IP.
	rl := appmw.NewRateLimiter(5, 10)
	api.POST("/auth/register", authHandler.Register, appmw.RateLimit(rl))
	api.POST("/auth/login", authHandler.Login, appmw.RateLimit(rl))

	// Everything below requires a verified token.
	secured := api.Group("", appmw.JWT(cfg.JWTSecret), appmw.Require(auth.LoggedIn()))

	// User administration
	secured.POST("/users", userHandler.CreateUser, appmw.Require(auth.AdminOnly()))
	secured.GET("/users", userHandler.ListUsers, appmw.Require(auth.AdminOnly()))
	secured.GET("/users/:username", userHandler.GetUser, appmw.RequireSelfOrAdmin("username"))
	secured.PATCH("/users/:username", userHandler.UpdateUser, appmw.RequireSelfOrAdmin("username"))
	secured.DELETE("/users/:username", userHandler.DeleteUser, appmw.Require(auth.AdminOnly()))

	// Doctors; mutations are admin only.
	secured.GET("/doctors", doctorHandler.ListDoctors)
	secured.GET("/doctors/:id", doctorHandler.GetDoctor)
	secured.POST("/doctors", doctorHandler.CreateDoctor, appmw.Require(auth.AdminOnly()))
	secured.PATCH("/doctors/:id", doctorHandler.UpdateDoctor, appmw.Require(auth.AdminOnly()))
	secured.DELETE("/doctors/:id", doctorHandler.DeleteDoctor, appmw.Require(auth.AdminOnly()))
	secured.GET("/doctors/:id/appointments", doctorHandler.DoctorAppointments)
	secured.GET("/doctors/name/:first/:last/appointments", doctorHandler.DoctorAppointmentsByName)

	// Appointments
	secured.GET("/appointments", appointmentHandler.ListAppointments)
	secured.GET("/appointments/:id", appointmentHandler.GetAppointment)
	secured.POST("/appointments", appointmentHandler.BookAppointment)
	secured.PATCH("/appointments/:id", appointmentHandler.UpdateAppointment)
	secured.DELETE("/appointments/:id", appointmentHandler.DeleteAppointment)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
