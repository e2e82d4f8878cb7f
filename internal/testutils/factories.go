package testutils

import (
	"fmt"
	"time"

	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every factory-built credential
const TestPassword = "secretpw"

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization with default values
func (f *OrganizationFactory) Create() *models.Organization {
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:    "Test Organization",
		Address: "1 Test Street",
	}
}

// WithName sets a custom name for the organization
func (f *OrganizationFactory) WithName(name string) *models.Organization {
	org := f.Create()
	org.Name = name
	return org
}

// CredentialFactory provides methods to create test Credential data
type CredentialFactory struct {
	hash string
}

// NewCredentialFactory creates a new CredentialFactory
func NewCredentialFactory() *CredentialFactory {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("hash test password: %v", err))
	}
	return &CredentialFactory{hash: string(hash)}
}

// Create creates an active test Credential whose password is TestPassword
func (f *CredentialFactory) Create() *models.Credential {
	return f.WithUsername("testuser")
}

// WithUsername creates a credential with the given username and a matching email
func (f *CredentialFactory) WithUsername(username string) *models.Credential {
	return &models.Credential{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: f.hash,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
}

// MemberProfileFactory provides methods to create test MemberProfile data
type MemberProfileFactory struct{}

// NewMemberProfileFactory creates a new MemberProfileFactory
func NewMemberProfileFactory() *MemberProfileFactory {
	return &MemberProfileFactory{}
}

// Create links credential to org with a default phone number and no position
func (f *MemberProfileFactory) Create(credential *models.Credential, org *models.Organization) *models.MemberProfile {
	phone := "+15550100"
	return &models.MemberProfile{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		CredentialID:   credential.ID,
		OrganizationID: org.ID,
		PhoneNumber:    &phone,
		Credential:     *credential,
		Organization:   *org,
	}
}

// WithPosition creates a linked profile holding the given position
func (f *MemberProfileFactory) WithPosition(credential *models.Credential, org *models.Organization, position string) *models.MemberProfile {
	profile := f.Create(credential, org)
	profile.Position = &position
	return profile
}

// FactorySet bundles every factory for repository tests
type FactorySet struct {
	Organization *OrganizationFactory
	Credential   *CredentialFactory
	Profile      *MemberProfileFactory
}

// NewFactorySet creates a new FactorySet
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Organization: NewOrganizationFactory(),
		Credential:   NewCredentialFactory(),
		Profile:      NewMemberProfileFactory(),
	}
}
