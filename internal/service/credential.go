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

// CredentialService owns login identities, password hashing and auth tokens
type CredentialService struct {
	credentials repository.CredentialRepositoryInterface
	tokens      repository.AuthTokenRepositoryInterface
	hasher      *auth.PasswordHasher
	issuer      *auth.TokenIssuer
	validator   *validator.Validate
}

// NewCredentialService creates a new credential service
func NewCredentialService(
	credentials repository.CredentialRepositoryInterface,
	tokens repository.AuthTokenRepositoryInterface,
	hasher *auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	validator *validator.Validate,
) *CredentialService {
	return &CredentialService{
		credentials: credentials,
		tokens:      tokens,
		hasher:      hasher,
		issuer:      issuer,
		validator:   validator,
	}
}

// WithRepositories returns a copy of the service bound to the given repositories,
// typically the ones of an open transaction
func (s *CredentialService) WithRepositories(repos *repository.Repositories) *CredentialService {
	bound := *s
	bound.credentials = repos.Credentials
	bound.tokens = repos.Tokens
	return &bound
}

// CreateCredentialRequest represents the data needed to create a login identity
type CreateCredentialRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// CreateCredential validates, checks uniqueness, hashes the password and stores the credential.
// A unique-key violation at insert time is returned wrapping gorm.ErrDuplicatedKey; callers
// translate it with ResolveConflict once the surrounding transaction is gone.
func (s *CredentialService) CreateCredential(req *CreateCredentialRequest) (*models.Credential, error) {
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

	if err := s.ensureUsernameFree(req.Username, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	credential := &models.Credential{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	if err := s.credentials.Create(credential); err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	return credential, nil
}

// ResolveConflict maps a unique-key violation to the username or email conflict that caused it.
// Any other error is returned unchanged.
func (s *CredentialService) ResolveConflict(err error, username, email string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if username != "" {
		if existing, lookupErr := s.credentials.GetByUsername(username); lookupErr == nil && existing != nil {
			return apperrors.ErrUsernameExists
		}
	}
	if email != "" {
		if existing, lookupErr := s.credentials.GetByEmail(email); lookupErr == nil && existing != nil {
			return apperrors.ErrEmailExists
		}
	}
	return err
}

// VerifyCredential checks a username/password pair
func (s *CredentialService) VerifyCredential(username, password string) (*models.Credential, error) {
	credential, err := s.credentials.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDecoy(password)
			return nil, apperrors.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	if err := s.hasher.Verify(credential.PasswordHash, password); err != nil {
		return nil, err
	}

	if !credential.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return credential, nil
}

// IssueOrReuseToken returns the stored token of the credential, minting one if none exists
func (s *CredentialService) IssueOrReuseToken(credential *models.Credential) (string, error) {
	existing, err := s.tokens.GetByCredentialID(credential.ID)
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	key, err := s.issuer.Mint(credential.ID)
	if err != nil {
		return "", fmt.Errorf("failed to mint token: %w", err)
	}

	if err := s.tokens.Create(&models.AuthToken{Key: key, CredentialID: credential.ID}); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("failed to store token: %w", err)
		}
		// another login won the race
		winner, lookupErr := s.tokens.GetByCredentialID(credential.ID)
		if lookupErr != nil {
			return "", fmt.Errorf("failed to get token: %w", lookupErr)
		}
		return winner.Key, nil
	}

	return key, nil
}

// RevokeToken deletes the token of a credential; revoking twice is not an error
func (s *CredentialService) RevokeToken(credentialID uuid.UUID) error {
	if err := s.tokens.DeleteByCredentialID(credentialID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SetPassword checks the policy and replaces the hash on the credential. Callers persist it.
func (s *CredentialService) SetPassword(credential *models.Credential, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	credential.PasswordHash = hash
	return nil
}

// ResolveToken returns the active credential owning a live token
func (s *CredentialService) ResolveToken(token string) (*models.Credential, error) {
	credentialID, err := s.issuer.Parse(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	stored, err := s.tokens.GetByKey(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if stored.CredentialID != credentialID {
		return nil, apperrors.ErrInvalidToken
	}

	credential, err := s.credentials.GetByID(credentialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if !credential.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return credential, nil
}

// ensureUsernameFree fails when another credential than self already uses username
func (s *CredentialService) ensureUsernameFree(username string, self uuid.UUID) error {
	existing, err := s.credentials.GetByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrUsernameExists
	}
	return nil
}

// ensureEmailFree fails when another credential than self already uses email
func (s *CredentialService) ensureEmailFree(email string, self uuid.UUID) error {
	existing, err := s.credentials.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrEmailExists
	}
	return nil
}
