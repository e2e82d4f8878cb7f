package repository

import (
	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// OrganizationRepositoryInterface defines the interface for organization repository operations
type OrganizationRepositoryInterface interface {
	Create(org *models.Organization) error
	GetByID(id uuid.UUID) (*models.Organization, error)
	GetByName(name string) (*models.Organization, error)
	GetAll() ([]models.Organization, error)
	Update(org *models.Organization) error
	Delete(id uuid.UUID) error
	GetWithProfiles(id uuid.UUID) (*models.Organization, error)
	CountProfiles(ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

// CredentialRepositoryInterface defines the interface for credential repository operations
type CredentialRepositoryInterface interface {
	Create(credential *models.Credential) error
	GetByID(id uuid.UUID) (*models.Credential, error)
	GetByUsername(username string) (*models.Credential, error)
	GetByEmail(email string) (*models.Credential, error)
	Update(credential *models.Credential) error
	Delete(id uuid.UUID) error
}

// MemberProfileRepositoryInterface defines the interface for member profile repository operations
type MemberProfileRepositoryInterface interface {
	Create(profile *models.MemberProfile) error
	GetByID(id uuid.UUID) (*models.MemberProfile, error)
	GetByCredentialID(credentialID uuid.UUID) (*models.MemberProfile, error)
	GetAll() ([]models.MemberProfile, error)
	GetByOrganizationID(orgID uuid.UUID) ([]models.MemberProfile, error)
	Update(profile *models.MemberProfile) error
	Delete(id uuid.UUID) error
}

// AuthTokenRepositoryInterface defines the interface for auth token repository operations
type AuthTokenRepositoryInterface interface {
	Create(token *models.AuthToken) error
	GetByKey(key string) (*models.AuthToken, error)
	GetByCredentialID(credentialID uuid.UUID) (*models.AuthToken, error)
	DeleteByCredentialID(credentialID uuid.UUID) error
}

// TransactorInterface runs a unit of work against repositories bound to one transaction
type TransactorInterface interface {
	WithinTransaction(fn func(repos *Repositories) error) error
}
