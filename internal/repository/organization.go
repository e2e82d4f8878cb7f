package repository

import (
	"tenant-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationRepository handles database operations for organizations
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization
func (r *OrganizationRepository) Create(org *models.Organization) error {
	return r.db.Omit("Profiles").Create(org).Error
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByName retrieves an organization by name
func (r *OrganizationRepository) GetByName(name string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetAll retrieves all organizations ordered by name
func (r *OrganizationRepository) GetAll() ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.Order("name ASC").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update updates an organization
func (r *OrganizationRepository) Update(org *models.Organization) error {
	return r.db.Model(org).Select("name", "address", "updated_at").Updates(org).Error
}

// Delete deletes an organization; member profiles go with it through the FK cascade
func (r *OrganizationRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Organization{}, "id = ?", id).Error
}

// GetWithProfiles retrieves an organization with its member profiles and their credentials
func (r *OrganizationRepository) GetWithProfiles(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.
		Preload("Profiles").
		Preload("Profiles.Credential").
		First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// CountProfiles returns the number of member profiles per organization for the given ids
func (r *OrganizationRepository) CountProfiles(ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		OrganizationID uuid.UUID
		Total          int64
	}
	var rows []row
	err := r.db.Model(&models.MemberProfile{}).
		Select("organization_id, COUNT(*) AS total").
		Where("organization_id IN ?", ids).
		Group("organization_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.OrganizationID] = rw.Total
	}
	return counts, nil
}
