package repository

import (
	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberProfileRepository handles database operations for member profiles
type MemberProfileRepository struct {
	db *gorm.DB
}

// NewMemberProfileRepository creates a new member profile repository
func NewMemberProfileRepository(db *gorm.DB) *MemberProfileRepository {
	return &MemberProfileRepository{db: db}
}

func (r *MemberProfileRepository) withRelations() *gorm.DB {
	return r.db.Joins("Credential").Joins("Organization")
}

// Create creates a new member profile without touching its associations
func (r *MemberProfileRepository) Create(profile *models.MemberProfile) error {
	return r.db.Omit(clause.Associations).Create(profile).Error
}

// GetByID retrieves a member profile with its credential and organization
func (r *MemberProfileRepository) GetByID(id uuid.UUID) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	err := r.withRelations().First(&profile, "member_profiles.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByCredentialID retrieves the member profile owned by a credential
func (r *MemberProfileRepository) GetByCredentialID(credentialID uuid.UUID) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	err := r.withRelations().First(&profile, "member_profiles.credential_id = ?", credentialID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAll retrieves all member profiles ordered by username
func (r *MemberProfileRepository) GetAll() ([]models.MemberProfile, error) {
	var profiles []models.MemberProfile
	err := r.withRelations().Order(`"Credential"."username" ASC`).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByOrganizationID retrieves the member profiles of one organization ordered by username
func (r *MemberProfileRepository) GetByOrganizationID(orgID uuid.UUID) ([]models.MemberProfile, error) {
	var profiles []models.MemberProfile
	err := r.withRelations().
		Where("member_profiles.organization_id = ?", orgID).
		Order(`"Credential"."username" ASC`).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update updates the profile columns only
func (r *MemberProfileRepository) Update(profile *models.MemberProfile) error {
	return r.db.Omit(clause.Associations).Save(profile).Error
}

// Delete deletes a member profile
func (r *MemberProfileRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.MemberProfile{}, "id = ?", id).Error
}
