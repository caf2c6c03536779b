package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

type registerRequest struct {
	Email          string     `json:"email" binding:"required"`
	Password       string     `json:"password" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	Role           string     `json:"role" binding:"required"`
	Specialization string     `json:"specialization"`
	HospitalID     *uuid.UUID `json:"hospital_user_id"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.Register(c.Request.Context(), &service.RegisterCommand{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Role:           domain.Role(req.Role),
		Specialization: req.Specialization,
		HospitalID:     req.HospitalID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	u, pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, loginResponse{User: u, Tokens: pair})
}
