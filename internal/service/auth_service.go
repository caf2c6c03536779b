package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/pkg/auth"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	users    UserRepository
	jwt      *auth.JWTManager
	auditSvc *AuditService
	log      *zap.Logger
}

func NewAuthService(users UserRepository, jwt *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, auditSvc: auditSvc, log: log}
}

type RegisterCommand struct {
	Email          string
	Password       string
	Name           string
	Role           domain.Role
	Specialization string
	HospitalID     *uuid.UUID
}

func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand) (*domain.User, error) {
	var fields []string
	if strings.TrimSpace(cmd.Email) == "" {
		fields = append(fields, "email is required")
	}
	if len(cmd.Password) < 8 {
		fields = append(fields, "password must be at least 8 characters")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if !cmd.Role.IsValid() {
		fields = append(fields, "role must be one of admin, doctor, patient, hospital")
	}
	if cmd.Role == domain.RoleDoctor && strings.TrimSpace(cmd.Specialization) == "" {
		fields = append(fields, "specialization is required for doctors")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash:   string(hash),
		Name:           cmd.Name,
		Role:           cmd.Role,
		Specialization: cmd.Specialization,
		HospitalID:     cmd.HospitalID,
		IsActive:       true,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.User, *domain.TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Same response for unknown email and bad password.
		return nil, nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.jwt.GenerateTokenPair(&domain.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.log.Warn("failed to record last login", zap.Error(err))
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: u.ID.String(), UserRole: string(u.Role),
		Action: "login", ResourceType: "user", ResourceID: u.ID.String(), IPAddress: ip,
	})

	return u, pair, nil
}
