package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"clinicbook/internal/model"
	"clinicbook/internal/service"
)

// DoctorHandler handles doctor endpoints.
type DoctorHandler struct {
	doctorService service.DoctorService
}

// NewDoctorHandler creates a new doctor handler.
func NewDoctorHandler(doctorService service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

// CreateDoctorRequest represents a doctor creation payload.
type CreateDoctorRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// ListDoctors godoc
// @Summary List doctors
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Doctor
// @Failure 401 {object} errors.ErrorResponse
// @Router /doctors [get]
func (h *DoctorHandler) ListDoctors(c echo.Context) error {
	doctors, err := h.doctorService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

// GetDoctor godoc
// @Summary Get a doctor by id
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Success 200 {object} model.Doctor
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctors/{id} [get]
func (h *DoctorHandler) GetDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doctor, err := h.doctorService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, doctor)
}

// CreateDoctor godoc
// @Summary Create a doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDoctorRequest true "Doctor payload"
// @Success 201 {object} model.Doctor
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /doctors [post]
func (h *DoctorHandler) CreateDoctor(c echo.Context) error {
	var req CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	doctor, err := h.doctorService.Create(c.Request().Context(), &model.Doctor{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, doctor)
}

// UpdateDoctor godoc
// @Summary Patch a doctor
// @Description Sparse update; unrecognized keys are ignored.
// @Tags doctors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Param request body map[string]interface{} true "Sparse fields"
// @Success 200 {object} model.Doctor
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctors/{id} [patch]
func (h *DoctorHandler) UpdateDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return badRequest("invalid request body")
	}

	doctor, err := h.doctorService.Update(c.Request().Context(), id, fields)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, doctor)
}

// DeleteDoctor godoc
// @Summary Delete a doctor
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctors/{id} [delete]
func (h *DoctorHandler) DeleteDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.doctorService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "doctor deleted"})
}

// DoctorAppointments godoc
// @Summary List a doctor's appointments by doctor id
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {array} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctors/{id}/appointments [get]
func (h *DoctorHandler) DoctorAppointments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	date, err := parseDateQuery(c)
	if err != nil {
		return err
	}
	appts, err := h.doctorService.Appointments(c.Request().Context(), id, date)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, appts)
}

// DoctorAppointmentsByName godoc
// @Summary List a doctor's appointments by doctor name
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Param first path string true "Doctor first name"
// @Param last path string true "Doctor last name"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {array} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctors/name/{first}/{last}/appointments [get]
func (h *DoctorHandler) DoctorAppointmentsByName(c echo.Context) error {
	date, err := parseDateQuery(c)
	if err != nil {
		return err
	}
	appts, err := h.doctorService.AppointmentsByName(
		c.Request().Context(), c.Param("first"), c.Param("last"), date)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, badRequest("invalid id")
	}
	return uint(id), nil
}

func parseDateQuery(c echo.Context) (*time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, badRequest("invalid date, expected YYYY-MM-DD")
	}
	return &d, nil
}
