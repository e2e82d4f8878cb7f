package service

import (
	"tenant-portal-backend/internal/auth"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// OrganizationServiceInterface defines the interface for organization service
type OrganizationServiceInterface interface {
	Create(req *CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(id uuid.UUID) (*OrganizationResponse, error)
	GetDetail(id uuid.UUID) (*OrganizationDetailResponse, error)
	GetAll() ([]OrganizationResponse, error)
	Update(id uuid.UUID, req *UpdateOrganizationRequest, partial bool) (*OrganizationResponse, error)
	Delete(id uuid.UUID) error
}

// MemberServiceInterface defines the interface for the member (organization user) service
type MemberServiceInterface interface {
	List(orgID *uuid.UUID) ([]MemberResponse, error)
	ListByOrganization(orgID uuid.UUID) ([]MemberResponse, error)
	Create(req *CreateMemberRequest) (*MemberResponse, error)
	GetByID(id uuid.UUID) (*MemberResponse, error)
	Update(id uuid.UUID, req *UpdateMemberRequest, partial bool) (*MemberResponse, error)
	Delete(id uuid.UUID) error
}

// ProvisioningServiceInterface defines the interface for signup and registration
type ProvisioningServiceInterface interface {
	Signup(req *SignupRequest) (*ProvisioningResponse, error)
	Register(req *RegistrationRequest) (*ProvisioningResponse, error)
}

// SessionServiceInterface defines the interface for the auth session workflow
type SessionServiceInterface interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Logout(session *auth.Session)
	GetProfile(session *auth.Session) (*MemberResponse, error)
	UpdateProfile(session *auth.Session, req *UpdateProfileRequest) (*MemberResponse, error)
	Authenticate(token string) (*auth.Session, error)
}

var (
	_ OrganizationServiceInterface = (*OrganizationService)(nil)
	_ MemberServiceInterface       = (*MemberProfileService)(nil)
	_ ProvisioningServiceInterface = (*ProvisioningService)(nil)
	_ SessionServiceInterface      = (*SessionService)(nil)
	_ auth.SessionResolver         = (*SessionService)(nil)
)
