package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/service"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

type bookAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_user_id" binding:"required"`
	PatientID uuid.UUID `json:"patient_user_id" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	Time      string    `json:"time" binding:"required"`
	Notes     string    `json:"notes"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Book(c.Request.Context(), sessionFrom(c), &appointment.BookAppointmentCommand{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The booking screen navigates to confirmation with this payload,
	// so the created appointment goes back whole, token included.
	c.JSON(http.StatusCreated, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type updateAppointmentRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.UpdateAppointmentCommand{}
	if req.Status != nil {
		s := appointment.Status(*req.Status)
		cmd.Status = &s
	}
	if req.PaymentStatus != nil {
		p := appointment.PaymentStatus(*req.PaymentStatus)
		cmd.PaymentStatus = &p
	}

	a, err := h.svc.Update(c.Request.Context(), sessionFrom(c), id, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondMessage(c, "Appointment cancelled successfully")
}

func (h *AppointmentHandler) List(c *gin.Context) {
	doctorID, ok := parseQueryUUID(c, "doctor_user_id")
	if !ok {
		return
	}
	patientID, ok := parseQueryUUID(c, "patient_user_id")
	if !ok {
		return
	}

	q := &appointment.ListAppointmentsQuery{
		DoctorID:  doctorID,
		PatientID: patientID,
	}
	if raw := c.Query("status"); raw != "" {
		s := appointment.Status(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status filter"})
			return
		}
		q.Status = &s
	}
	if raw := c.Query("date_from"); raw != "" {
		q.DateFrom = &raw
	}
	if raw := c.Query("date_to"); raw != "" {
		q.DateTo = &raw
	}

	appts, err := h.svc.List(c.Request.Context(), sessionFrom(c), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}
