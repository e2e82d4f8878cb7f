package repository

import (
	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthTokenRepository handles database operations for auth tokens
type AuthTokenRepository struct {
	db *gorm.DB
}

// NewAuthTokenRepository creates a new auth token repository
func NewAuthTokenRepository(db *gorm.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

// Create stores a token
func (r *AuthTokenRepository) Create(token *models.AuthToken) error {
	return r.db.Omit("Credential").Create(token).Error
}

// GetByKey retrieves a token by its key
func (r *AuthTokenRepository) GetByKey(key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.First(&token, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByCredentialID retrieves the live token of a credential
func (r *AuthTokenRepository) GetByCredentialID(credentialID uuid.UUID) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.First(&token, "credential_id = ?", credentialID).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByCredentialID removes the token of a credential; deleting nothing is not an error
func (r *AuthTokenRepository) DeleteByCredentialID(credentialID uuid.UUID) error {
	return r.db.Where("credential_id = ?", credentialID).Delete(&models.AuthToken{}).Error
}
