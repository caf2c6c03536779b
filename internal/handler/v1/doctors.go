package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/internal/service"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DoctorHandler) List(c *gin.Context) {
	hospitalID, ok := parseQueryUUID(c, "hospital_user_id")
	if !ok {
		return
	}

	includeAvail, _ := strconv.ParseBool(c.Query("include_availability"))

	doctors, err := h.svc.List(c.Request.Context(), &doctor.ListDoctorsQuery{
		HospitalID:          hospitalID,
		IncludeAvailability: includeAvail,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}
