package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDoctor   Role = "doctor"
	RolePatient  Role = "patient"
	RoleHospital Role = "hospital"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleHospital:
		return true
	}
	return false
}

// Session identifies the acting user for a workflow run. It replaces the
// ambient role/user-id flags the legacy client kept in browser storage,
// so every component receives the caller explicitly.
type Session struct {
	UserID uuid.UUID
	Role   Role
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Name         string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index" json:"role"`

	// Doctor-only attributes. Specialization drives the consultation fee;
	// HospitalID links the doctor to the hospital account they work under.
	Specialization string     `gorm:"column:specialization;type:varchar(100)" json:"specialization,omitempty"`
	HospitalID     *uuid.UUID `gorm:"column:hospital_id;type:uuid;index" json:"hospital_user_id,omitempty"`

	IsActive    bool       `gorm:"column:is_active;default:true;index" json:"is_active"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"-"`
}

func (User) TableName() string {
	return "accounts.users"
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(20);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"`

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	Changes string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func (c *Claims) Session() Session {
	return Session{UserID: c.UserID, Role: c.Role}
}
