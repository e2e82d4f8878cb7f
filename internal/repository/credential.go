package repository

import (
	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialRepository handles database operations for credentials
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create creates a new credential
func (r *CredentialRepository) Create(credential *models.Credential) error {
	return r.db.Create(credential).Error
}

// GetByID retrieves a credential by ID
func (r *CredentialRepository) GetByID(id uuid.UUID) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.First(&credential, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// GetByUsername retrieves a credential by username
func (r *CredentialRepository) GetByUsername(username string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.First(&credential, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// GetByEmail retrieves a credential by email
func (r *CredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.First(&credential, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// Update updates a credential
func (r *CredentialRepository) Update(credential *models.Credential) error {
	return r.db.Save(credential).Error
}

// Delete deletes a credential together with its profile and token
func (r *CredentialRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Credential{}, "id = ?", id).Error
}
