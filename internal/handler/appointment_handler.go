package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicbook/internal/service"
)

// AppointmentHandler handles appointment endpoints.
type AppointmentHandler struct {
	bookingService service.BookingService
}

// NewAppointmentHandler creates a new appointment handler.
func NewAppointmentHandler(bookingService service.BookingService) *AppointmentHandler {
	return &AppointmentHandler{bookingService: bookingService}
}

// BookRequest represents a booking request.
type BookRequest struct {
	DoctorFirstName  string `json:"doctor_first_name" validate:"required"`
	DoctorLastName   string `json:"doctor_last_name" validate:"required"`
	PatientFirstName string `json:"patient_first_name" validate:"required"`
	PatientLastName  string `json:"patient_last_name" validate:"required"`
	Date             string `json:"date" validate:"required"`
	Time             string `json:"time" validate:"required"`
	Kind             string `json:"kind"`
}

// ListAppointments godoc
// @Summary List appointments
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Appointment
// @Failure 401 {object} errors.ErrorResponse
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(c echo.Context) error {
	appts, err := h.bookingService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, appts)
}

// GetAppointment godoc
// @Summary Get an appointment by id
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appt, err := h.bookingService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// BookAppointment godoc
// @Summary Book an appointment
// @Description Admits the booking if the slot has capacity (max 3 per
// @Description doctor/date/time) and the patient is not already booked for
// @Description that slot.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BookRequest true "Booking payload"
// @Success 201 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /appointments [post]
func (h *AppointmentHandler) BookAppointment(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	appt, err := h.bookingService.Book(c.Request().Context(), service.BookingRequest{
		DoctorFirstName:  req.DoctorFirstName,
		DoctorLastName:   req.DoctorLastName,
		PatientFirstName: req.PatientFirstName,
		PatientLastName:  req.PatientLastName,
		Date:             req.Date,
		Time:             req.Time,
		Kind:             req.Kind,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

// UpdateAppointment godoc
// @Summary Patch an appointment
// @Description Sparse update of patient name, date, time or kind;
// @Description unrecognized keys are ignored. Admission checks are not
// @Description re-run on reschedule.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body map[string]interface{} true "Sparse fields"
// @Success 200 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id} [patch]
func (h *AppointmentHandler) UpdateAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return badRequest("invalid request body")
	}

	appt, err := h.bookingService.Reschedule(c.Request().Context(), id, fields)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// DeleteAppointment godoc
// @Summary Delete an appointment
// @Description Hard delete; deleting the same appointment twice yields 404
// @Description on the second call.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) DeleteAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.bookingService.Cancel(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted"})
}
