package service

import (
	"errors"
	"fmt"

	"tenant-portal-backend/internal/auth"
	"tenant-portal-backend/internal/database/models"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberProfileService links credentials to organizations and manages member profiles
type MemberProfileService struct {
	profiles      repository.MemberProfileRepositoryInterface
	organizations repository.OrganizationRepositoryInterface
	transactor    repository.TransactorInterface
	credentials   *CredentialService
	validator     *validator.Validate
}

// NewMemberProfileService creates a new member profile service
func NewMemberProfileService(
	profiles repository.MemberProfileRepositoryInterface,
	organizations repository.OrganizationRepositoryInterface,
	transactor repository.TransactorInterface,
	credentials *CredentialService,
	validator *validator.Validate,
) *MemberProfileService {
	return &MemberProfileService{
		profiles:      profiles,
		organizations: organizations,
		transactor:    transactor,
		credentials:   credentials,
		validator:     validator,
	}
}

// WithRepositories returns a copy of the service bound to the given repositories
func (s *MemberProfileService) WithRepositories(repos *repository.Repositories) *MemberProfileService {
	bound := *s
	bound.profiles = repos.Profiles
	bound.organizations = repos.Organizations
	bound.credentials = s.credentials.WithRepositories(repos)
	return &bound
}

// CreateMemberRequest represents the request to create a member of an organization
type CreateMemberRequest struct {
	Username     string    `json:"username" validate:"required,max=150"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	FirstName    string    `json:"first_name" validate:"required,max=150"`
	LastName     string    `json:"last_name" validate:"required,max=150"`
	PhoneNumber  *string   `json:"phone_number" validate:"omitnil,max=20"`
	Position     *string   `json:"position" validate:"omitnil,max=100"`
	Organization uuid.UUID `json:"organization" validate:"required"`
	Password     string    `json:"password" validate:"required"`
}

// UpdateMemberRequest represents a full (PUT) or partial (PATCH) member update.
// Only the fields listed here can change.
type UpdateMemberRequest struct {
	Username     *string    `json:"username" validate:"omitnil,min=1,max=150"`
	Email        *string    `json:"email" validate:"omitnil,email,max=254"`
	FirstName    *string    `json:"first_name" validate:"omitnil,max=150"`
	LastName     *string    `json:"last_name" validate:"omitnil,max=150"`
	PhoneNumber  *string    `json:"phone_number" validate:"omitnil,max=20"`
	Position     *string    `json:"position" validate:"omitnil,max=100"`
	Organization *uuid.UUID `json:"organization"`
	Password     *string    `json:"password"`
}

// MemberResponse is the read view of a member profile
type MemberResponse struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	PhoneNumber      *string   `json:"phone_number"`
	Position         *string   `json:"position"`
	Organization     uuid.UUID `json:"organization"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

// Link creates the member profile joining a credential to an organization
func (s *MemberProfileService) Link(credential *models.Credential, org *models.Organization, phoneNumber, position *string) (*models.MemberProfile, error) {
	existing, err := s.profiles.GetByCredentialID(credential.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyLinked
	}

	profile := &models.MemberProfile{
		CredentialID:   credential.ID,
		OrganizationID: org.ID,
		PhoneNumber:    phoneNumber,
		Position:       position,
	}
	if err := s.profiles.Create(profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyLinked
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	profile.Credential = *credential
	profile.Organization = *org
	return profile, nil
}

// FindByCredential returns the profile owned by a credential
func (s *MemberProfileService) FindByCredential(credentialID uuid.UUID) (*models.MemberProfile, error) {
	profile, err := s.profiles.GetByCredentialID(credentialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// List returns the members of one organization, or of all organizations when orgID is nil
func (s *MemberProfileService) List(orgID *uuid.UUID) ([]MemberResponse, error) {
	var (
		profiles []models.MemberProfile
		err      error
	)
	if orgID != nil {
		profiles, err = s.profiles.GetByOrganizationID(*orgID)
	} else {
		profiles, err = s.profiles.GetAll()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	responses := make([]MemberResponse, len(profiles))
	for i := range profiles {
		responses[i] = *toMemberResponse(&profiles[i])
	}
	return responses, nil
}

// ListByOrganization returns the members of an existing organization
func (s *MemberProfileService) ListByOrganization(orgID uuid.UUID) ([]MemberResponse, error) {
	if _, err := s.organizations.GetByID(orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return s.List(&orgID)
}

// Create creates a credential and links it to the requested organization in one transaction
func (s *MemberProfileService) Create(req *CreateMemberRequest) (*MemberResponse, error) {
	errs := apperrors.FieldErrors{}
	if err := validateStruct(s.validator, req); err != nil && !mergeFieldErrors(errs, err) {
		return nil, err
	}
	if _, reported := errs["password"]; !reported {
		mergeFieldErrors(errs, auth.CheckPolicy(req.Password))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var profile *models.MemberProfile
	err := s.transactor.WithinTransaction(func(repos *repository.Repositories) error {
		tx := s.WithRepositories(repos)

		org, err := tx.lookupOrganization(req.Organization)
		if err != nil {
			return err
		}

		credential, err := tx.credentials.CreateCredential(&CreateCredentialRequest{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return err
		}

		profile, err = tx.Link(credential, org, req.PhoneNumber, req.Position)
		return err
	})
	if err != nil {
		return nil, s.credentials.ResolveConflict(err, req.Username, req.Email)
	}

	return toMemberResponse(profile), nil
}

// GetByID retrieves a member by profile ID
func (s *MemberProfileService) GetByID(id uuid.UUID) (*MemberResponse, error) {
	profile, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(profile), nil
}

// Update applies a full or partial admin update, organization included
func (s *MemberProfileService) Update(id uuid.UUID, req *UpdateMemberRequest, partial bool) (*MemberResponse, error) {
	profile, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if !partial {
		errs := apperrors.FieldErrors{}
		if req.Username == nil {
			errs.Add("username", msgRequired)
		}
		if req.Email == nil {
			errs.Add("email", msgRequired)
		}
		if req.FirstName == nil {
			errs.Add("first_name", msgRequired)
		}
		if req.LastName == nil {
			errs.Add("last_name", msgRequired)
		}
		if req.Organization == nil {
			errs.Add("organization", msgRequired)
		}
		if len(errs) > 0 {
			return nil, errs
		}
	}

	return s.applyUpdate(profile, req, true)
}

// Delete removes the member profile. The credential and its token are kept, so the
// user can still log in without an organization.
func (s *MemberProfileService) Delete(id uuid.UUID) error {
	profile, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.profiles.Delete(profile.ID); err != nil {
		return fmt.Errorf("failed to delete member profile: %w", err)
	}
	return nil
}

// applyUpdate validates every supplied field before any of them is applied, then
// saves the credential and the profile in one transaction
func (s *MemberProfileService) applyUpdate(profile *models.MemberProfile, req *UpdateMemberRequest, allowOrganization bool) (*MemberResponse, error) {
	if !allowOrganization {
		req.Organization = nil
	}

	errs := apperrors.FieldErrors{}
	if err := validateStruct(s.validator, req); err != nil && !mergeFieldErrors(errs, err) {
		return nil, err
	}
	if req.Password != nil {
		mergeFieldErrors(errs, auth.CheckPolicy(*req.Password))
	}

	credential := profile.Credential
	var changedUsername, changedEmail string

	if req.Username != nil && *req.Username != credential.Username && len(errs["username"]) == 0 {
		if err := s.credentials.ensureUsernameFree(*req.Username, credential.ID); err != nil && !mergeFieldErrors(errs, err) {
			return nil, err
		}
		changedUsername = *req.Username
	}
	if req.Email != nil && *req.Email != credential.Email && len(errs["email"]) == 0 {
		if err := s.credentials.ensureEmailFree(*req.Email, credential.ID); err != nil && !mergeFieldErrors(errs, err) {
			return nil, err
		}
		changedEmail = *req.Email
	}

	org := profile.Organization
	if req.Organization != nil && *req.Organization != profile.OrganizationID {
		found, err := s.lookupOrganization(*req.Organization)
		if err != nil && !mergeFieldErrors(errs, err) {
			return nil, err
		}
		if found != nil {
			org = *found
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if req.Username != nil {
		credential.Username = *req.Username
	}
	if req.Email != nil {
		credential.Email = *req.Email
	}
	if req.FirstName != nil {
		credential.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		credential.LastName = *req.LastName
	}
	if req.Password != nil {
		if err := s.credentials.SetPassword(&credential, *req.Password); err != nil {
			return nil, err
		}
	}

	updated := *profile
	if req.PhoneNumber != nil {
		updated.PhoneNumber = req.PhoneNumber
	}
	if req.Position != nil {
		updated.Position = req.Position
	}
	updated.OrganizationID = org.ID

	err := s.transactor.WithinTransaction(func(repos *repository.Repositories) error {
		if err := repos.Credentials.Update(&credential); err != nil {
			return fmt.Errorf("failed to update credential: %w", err)
		}
		if err := repos.Profiles.Update(&updated); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.credentials.ResolveConflict(err, changedUsername, changedEmail)
	}

	updated.Credential = credential
	updated.Organization = org
	return toMemberResponse(&updated), nil
}

func (s *MemberProfileService) get(id uuid.UUID) (*models.MemberProfile, error) {
	profile, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// lookupOrganization resolves an organization reference, reporting a missing one as a field error
func (s *MemberProfileService) lookupOrganization(id uuid.UUID) (*models.Organization, error) {
	org, err := s.organizations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidationError("organization", fmt.Sprintf("Invalid pk %q - object does not exist.", id.String()))
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

func toMemberResponse(profile *models.MemberProfile) *MemberResponse {
	return &MemberResponse{
		ID:               profile.ID,
		Username:         profile.Credential.Username,
		Email:            profile.Credential.Email,
		FirstName:        profile.Credential.FirstName,
		LastName:         profile.Credential.LastName,
		PhoneNumber:      profile.PhoneNumber,
		Position:         profile.Position,
		Organization:     profile.OrganizationID,
		OrganizationName: profile.Organization.Name,
		CreatedAt:        profile.CreatedAt.Format(timestampLayout),
		UpdatedAt:        profile.UpdatedAt.Format(timestampLayout),
	}
}
