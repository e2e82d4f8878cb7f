package service

import (
	"errors"
	"fmt"

	"tenant-portal-backend/internal/database/models"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// OrganizationService handles business logic for organizations
type OrganizationService struct {
	repo      repository.OrganizationRepositoryInterface
	validator *validator.Validate
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(repo repository.OrganizationRepositoryInterface, validator *validator.Validate) *OrganizationService {
	return &OrganizationService{
		repo:      repo,
		validator: validator,
	}
}

// WithRepositories returns a copy of the service bound to the given repositories
func (s *OrganizationService) WithRepositories(repos *repository.Repositories) *OrganizationService {
	bound := *s
	bound.repo = repos.Organizations
	return &bound
}

// CreateOrganizationRequest represents the request to create an organization
type CreateOrganizationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required"`
}

// UpdateOrganizationRequest represents a full (PUT) or partial (PATCH) organization update
type UpdateOrganizationRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=200"`
	Address *string `json:"address" validate:"omitnil,min=1"`
}

// OrganizationResponse represents the response for organization operations
type OrganizationResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	UsersCount int64     `json:"users_count"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// UserSummary is the lightweight member projection embedded in organization details
type UserSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Organization     uuid.UUID `json:"organization"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

// OrganizationDetailResponse is an organization together with its users
type OrganizationDetailResponse struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Users     []UserSummary `json:"users"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// Create creates a new organization
func (s *OrganizationService) Create(req *CreateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.create(req)
	if err != nil {
		return nil, s.ResolveConflict(err, req.Name)
	}
	return s.toResponse(org, 0), nil
}

// create validates and stores an organization without resolving insert-time conflicts
func (s *OrganizationService) create(req *CreateOrganizationRequest) (*models.Organization, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	org := &models.Organization{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// ResolveConflict maps a unique-key violation on the name column to ErrOrganizationExists
func (s *OrganizationService) ResolveConflict(err error, name string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if existing, lookupErr := s.repo.GetByName(name); lookupErr == nil && existing != nil {
		return apperrors.ErrOrganizationExists
	}
	return err
}

// GetByID retrieves an organization by ID
func (s *OrganizationService) GetByID(id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.get(id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountProfiles([]uuid.UUID{org.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count organization users: %w", err)
	}

	return s.toResponse(org, counts[org.ID]), nil
}

// GetDetail retrieves an organization with the summaries of its users
func (s *OrganizationService) GetDetail(id uuid.UUID) (*OrganizationDetailResponse, error) {
	org, err := s.repo.GetWithProfiles(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	users := make([]UserSummary, 0, len(org.Profiles))
	for i := range org.Profiles {
		profile := &org.Profiles[i]
		users = append(users, UserSummary{
			ID:               profile.ID,
			Name:             profile.Credential.DisplayName(),
			Email:            profile.Credential.Email,
			Organization:     org.ID,
			OrganizationName: org.Name,
			CreatedAt:        profile.CreatedAt.Format(timestampLayout),
			UpdatedAt:        profile.UpdatedAt.Format(timestampLayout),
		})
	}

	return &OrganizationDetailResponse{
		ID:        org.ID,
		Name:      org.Name,
		Address:   org.Address,
		Users:     users,
		CreatedAt: org.CreatedAt.Format(timestampLayout),
		UpdatedAt: org.UpdatedAt.Format(timestampLayout),
	}, nil
}

// GetAll retrieves all organizations ordered by name, each with its users count
func (s *OrganizationService) GetAll() ([]OrganizationResponse, error) {
	orgs, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations: %w", err)
	}

	ids := make([]uuid.UUID, len(orgs))
	for i := range orgs {
		ids[i] = orgs[i].ID
	}
	counts, err := s.repo.CountProfiles(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count organization users: %w", err)
	}

	responses := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = *s.toResponse(&orgs[i], counts[orgs[i].ID])
	}
	return responses, nil
}

// Update applies a full or partial update; a full update requires every field
func (s *OrganizationService) Update(id uuid.UUID, req *UpdateOrganizationRequest, partial bool) (*OrganizationResponse, error) {
	errs := apperrors.FieldErrors{}
	if err := validateStruct(s.validator, req); err != nil && !mergeFieldErrors(errs, err) {
		return nil, err
	}
	if !partial {
		if req.Name == nil {
			errs.Add("name", msgRequired)
		}
		if req.Address == nil {
			errs.Add("address", msgRequired)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	org, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != org.Name {
		if err := s.ensureNameFree(*req.Name, org.ID); err != nil {
			return nil, err
		}
		org.Name = *req.Name
	}
	if req.Address != nil {
		org.Address = *req.Address
	}

	if err := s.repo.Update(org); err != nil {
		return nil, s.ResolveConflict(fmt.Errorf("failed to update organization: %w", err), org.Name)
	}

	counts, err := s.repo.CountProfiles([]uuid.UUID{org.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count organization users: %w", err)
	}

	return s.toResponse(org, counts[org.ID]), nil
}

// Delete deletes an organization and, through the cascade, its member profiles
func (s *OrganizationService) Delete(id uuid.UUID) error {
	if _, err := s.get(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return nil
}

func (s *OrganizationService) get(id uuid.UUID) (*models.Organization, error) {
	org, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

func (s *OrganizationService) ensureNameFree(name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing organization by name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrOrganizationExists
	}
	return nil
}

// toResponse converts an organization model to response
func (s *OrganizationService) toResponse(org *models.Organization, usersCount int64) *OrganizationResponse {
	return &OrganizationResponse{
		ID:         org.ID,
		Name:       org.Name,
		Address:    org.Address,
		UsersCount: usersCount,
		CreatedAt:  org.CreatedAt.Format(timestampLayout),
		UpdatedAt:  org.UpdatedAt.Format(timestampLayout),
	}
}
