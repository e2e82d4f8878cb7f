package service

import (
	"errors"
	"strings"

	"tenant-portal-backend/internal/auth"
	"tenant-portal-backend/internal/config"
	"tenant-portal-backend/internal/database/models"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/logger"
	"tenant-portal-backend/internal/metrics"
	"tenant-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Names given to the administrator credential created by signup
const (
	signupAdminFirstName = "Admin"
	signupAdminLastName  = "User"
)

// ProvisioningService runs the multi-entity signup and registration workflows
type ProvisioningService struct {
	transactor         repository.TransactorInterface
	organizations      *OrganizationService
	credentials        *CredentialService
	members            *MemberProfileService
	validator          *validator.Validate
	addressPlaceholder string
}

// NewProvisioningService creates a new provisioning service
func NewProvisioningService(
	transactor repository.TransactorInterface,
	organizations *OrganizationService,
	credentials *CredentialService,
	members *MemberProfileService,
	validator *validator.Validate,
	addressPlaceholder string,
) *ProvisioningService {
	if addressPlaceholder == "" {
		addressPlaceholder = config.DefaultAddressPlaceholder
	}
	return &ProvisioningService{
		transactor:         transactor,
		organizations:      organizations,
		credentials:        credentials,
		members:            members,
		validator:          validator,
		addressPlaceholder: addressPlaceholder,
	}
}

// SignupRequest represents an organization self-registration
type SignupRequest struct {
	OrganizationName  string `json:"organization_name" validate:"required,max=200"`
	OrganizationEmail string `json:"organization_email" validate:"required,email,max=254"`
	PhoneNumber       string `json:"phone_number" validate:"required,max=20"`
	Password          string `json:"password" validate:"required"`
}

// RegistrationRequest represents a member joining an existing organization
type RegistrationRequest struct {
	Username     string    `json:"username" validate:"required,max=150"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	FirstName    string    `json:"first_name" validate:"required,max=30"`
	LastName     string    `json:"last_name" validate:"required,max=30"`
	Password     string    `json:"password" validate:"required"`
	Organization uuid.UUID `json:"organization" validate:"required"`
	PhoneNumber  *string   `json:"phone_number" validate:"omitnil,max=20"`
	Position     *string   `json:"position" validate:"omitnil,max=100"`
}

// ProvisioningResponse is returned by signup and registration
type ProvisioningResponse struct {
	User    MemberResponse `json:"user"`
	Message string         `json:"message"`
}

// SignupUsername derives the administrator username from an organization name
func SignupUsername(organizationName string) string {
	return strings.ReplaceAll(strings.ToLower(organizationName), " ", "_")
}

// Signup creates an organization, its administrator credential and the linking profile atomically
func (s *ProvisioningService) Signup(req *SignupRequest) (*ProvisioningResponse, error) {
	if err := s.validateWithPassword(req, req.Password); err != nil {
		return nil, err
	}

	username := SignupUsername(req.OrganizationName)
	position := models.PositionAdministrator
	phone := req.PhoneNumber

	var profile *models.MemberProfile
	err := s.transactor.WithinTransaction(func(repos *repository.Repositories) error {
		org, err := s.organizations.WithRepositories(repos).create(&CreateOrganizationRequest{
			Name:    req.OrganizationName,
			Address: s.addressPlaceholder,
		})
		if err != nil {
			return err
		}

		credential, err := s.credentials.WithRepositories(repos).CreateCredential(&CreateCredentialRequest{
			Username:  username,
			Email:     req.OrganizationEmail,
			Password:  req.Password,
			FirstName: signupAdminFirstName,
			LastName:  signupAdminLastName,
		})
		if err != nil {
			return err
		}

		profile, err = s.members.WithRepositories(repos).Link(credential, org, &phone, &position)
		return err
	})
	if err != nil {
		err = s.organizations.ResolveConflict(err, req.OrganizationName)
		err = s.credentials.ResolveConflict(err, username, req.OrganizationEmail)
		return nil, err
	}

	metrics.SignupsTotal.Inc()
	logger.New().WithFields(map[string]interface{}{
		"organization": profile.Organization.Name,
		"username":     profile.Credential.Username,
	}).Info("organization signed up")

	return &ProvisioningResponse{
		User:    *toMemberResponse(profile),
		Message: "Organization registered successfully",
	}, nil
}

// Register creates a credential and links it to an existing organization atomically
func (s *ProvisioningService) Register(req *RegistrationRequest) (*ProvisioningResponse, error) {
	if err := s.validateWithPassword(req, req.Password); err != nil {
		return nil, err
	}

	var profile *models.MemberProfile
	err := s.transactor.WithinTransaction(func(repos *repository.Repositories) error {
		credentials := s.credentials.WithRepositories(repos)

		org, err := s.organizations.WithRepositories(repos).get(req.Organization)
		if err != nil && !errors.Is(err, apperrors.ErrOrganizationNotFound) {
			return err
		}
		if err := registrationConflicts(credentials, req, org == nil); err != nil {
			return err
		}

		credential, err := credentials.CreateCredential(&CreateCredentialRequest{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return err
		}

		profile, err = s.members.WithRepositories(repos).Link(credential, org, req.PhoneNumber, req.Position)
		return err
	})
	if err != nil {
		return nil, s.credentials.ResolveConflict(err, req.Username, req.Email)
	}

	metrics.RegistrationsTotal.Inc()
	logger.New().WithFields(map[string]interface{}{
		"organization": profile.Organization.Name,
		"username":     profile.Credential.Username,
	}).Info("member registered")

	return &ProvisioningResponse{
		User:    *toMemberResponse(profile),
		Message: "User registered successfully to organization",
	}, nil
}

// registrationConflicts reports a taken username, a taken email and an unknown organization
// together, joined so each stays matchable with errors.Is. An unknown organization on its
// own is returned as ErrOrganizationNotFound.
func registrationConflicts(credentials *CredentialService, req *RegistrationRequest, missingOrganization bool) error {
	var conflicts []error
	for _, check := range []func() error{
		func() error { return credentials.ensureUsernameFree(req.Username, uuid.Nil) },
		func() error { return credentials.ensureEmailFree(req.Email, uuid.Nil) },
	} {
		if err := check(); err != nil {
			if !apperrors.IsAlreadyExists(err) {
				return err
			}
			conflicts = append(conflicts, err)
		}
	}

	if missingOrganization {
		if len(conflicts) == 0 {
			return apperrors.ErrOrganizationNotFound
		}
		conflicts = append(conflicts, apperrors.NewValidationError("organization", msgOrganizationMissing))
	}

	switch len(conflicts) {
	case 0:
		return nil
	case 1:
		return conflicts[0]
	default:
		return errors.Join(conflicts...)
	}
}

// validateWithPassword reports tag failures and the password policy together
func (s *ProvisioningService) validateWithPassword(req interface{}, password string) error {
	errs := apperrors.FieldErrors{}
	if err := validateStruct(s.validator, req); err != nil && !mergeFieldErrors(errs, err) {
		return err
	}
	if _, reported := errs["password"]; !reported {
		mergeFieldErrors(errs, auth.CheckPolicy(password))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
