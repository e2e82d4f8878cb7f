package service

import (
	"errors"
	"fmt"

	"tenant-portal-backend/internal/auth"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/logger"
	"tenant-portal-backend/internal/metrics"

	"github.com/go-playground/validator/v10"
)

const noOrganizationName = "No Organization"

// SessionService implements login, logout and the current-user profile operations
type SessionService struct {
	credentials *CredentialService
	members     *MemberProfileService
	validator   *validator.Validate
}

// NewSessionService creates a new session service
func NewSessionService(credentials *CredentialService, members *MemberProfileService, validator *validator.Validate) *SessionService {
	return &SessionService{
		credentials: credentials,
		members:     members,
		validator:   validator,
	}
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CredentialView is returned by login for a credential that has no member profile
type CredentialView struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

// LoginResponse carries the token and either a MemberResponse or a CredentialView
type LoginResponse struct {
	User    interface{} `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// UpdateProfileRequest is the self-service profile update; the organization cannot change
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Position    *string `json:"position"`
	Password    *string `json:"password"`
}

// Login verifies the credentials and returns the credential's token, reusing a live one
func (s *SessionService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		if _, ok := apperrors.ToFieldErrors(err); ok {
			return nil, apperrors.NewValidationError("", "Must include username and password.")
		}
		return nil, err
	}

	credential, err := s.credentials.VerifyCredential(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountDisabled):
			metrics.LoginsTotal.WithLabelValues(metrics.LoginDisabled).Inc()
			return nil, err
		case errors.Is(err, apperrors.ErrCredentialNotFound), errors.Is(err, apperrors.ErrInvalidPassword):
			metrics.LoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
			return nil, apperrors.ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	token, err := s.credentials.IssueOrReuseToken(credential)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()

	response := &LoginResponse{Token: token, Message: "Login successful"}

	profile, err := s.members.FindByCredential(credential.ID)
	switch {
	case err == nil:
		response.User = toMemberResponse(profile)
	case errors.Is(err, apperrors.ErrProfileNotFound):
		response.User = &CredentialView{
			Username:         credential.Username,
			Email:            credential.Email,
			FirstName:        credential.FirstName,
			LastName:         credential.LastName,
			OrganizationName: noOrganizationName,
		}
	default:
		return nil, err
	}

	return response, nil
}

// Logout revokes the session token. A failed revocation is logged, never reported.
func (s *SessionService) Logout(session *auth.Session) {
	if err := s.credentials.RevokeToken(session.CredentialID); err != nil {
		logger.New().WithField("user", session.Username).WithError(err).Warn("failed to revoke token on logout")
	}
}

// GetProfile returns the member profile of the session's credential
func (s *SessionService) GetProfile(session *auth.Session) (*MemberResponse, error) {
	profile, err := s.members.FindByCredential(session.CredentialID)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(profile), nil
}

// UpdateProfile applies a partial update to the session's own member profile
func (s *SessionService) UpdateProfile(session *auth.Session, req *UpdateProfileRequest) (*MemberResponse, error) {
	profile, err := s.members.FindByCredential(session.CredentialID)
	if err != nil {
		return nil, err
	}

	return s.members.applyUpdate(profile, &UpdateMemberRequest{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Position:    req.Position,
		Password:    req.Password,
	}, false)
}

// Authenticate resolves a token into a session
func (s *SessionService) Authenticate(token string) (*auth.Session, error) {
	credential, err := s.credentials.ResolveToken(token)
	if err != nil {
		if apperrors.IsAuthentication(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return &auth.Session{
		CredentialID: credential.ID,
		Username:     credential.Username,
		Token:        token,
	}, nil
}
