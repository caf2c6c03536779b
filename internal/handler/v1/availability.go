package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/service"
)

type AvailabilityHandler struct {
	svc *service.AvailabilityService
}

type slotTime struct {
	Time string `json:"time"`
}

// List serves two callers: the booking screen asks for a doctor's bookable
// times on one date; the doctor dashboard lists all of its own open slots.
func (h *AvailabilityHandler) List(c *gin.Context) {
	doctorID, ok := parseQueryUUID(c, "doctor_user_id")
	if !ok {
		return
	}
	if doctorID == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "doctor_user_id is required"})
		return
	}

	date := c.Query("date")
	if date != "" {
		times, err := h.svc.Resolve(c.Request.Context(), *doctorID, date)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		out := make([]slotTime, 0, len(times))
		for _, t := range times {
			out = append(out, slotTime{Time: t})
		}
		c.JSON(http.StatusOK, out)
		return
	}

	slots, err := h.svc.ListSlots(c.Request.Context(), *doctorID, "")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

type addSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *AvailabilityHandler) Add(c *gin.Context) {
	var req addSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	sess := sessionFrom(c)
	slot, err := h.svc.AddSlot(c.Request.Context(), sess, &availability.AddSlotCommand{
		DoctorID: sess.UserID,
		Date:     req.Date,
		Time:     req.Time,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, slot)
}

func (h *AvailabilityHandler) Remove(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	sess := sessionFrom(c)
	if err := h.svc.RemoveSlot(c.Request.Context(), sess, id, sess.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondMessage(c, "Availability slot removed")
}
