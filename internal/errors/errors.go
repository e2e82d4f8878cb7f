package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists.
// Field names the request field that collided, if any.
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this name"
	Field   string
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// FieldErrors collects validation messages per request field
type FieldErrors map[string][]string

// Add appends a message for a field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrCredentialNotFound   = &NotFoundError{Entity: "user"}
	ErrProfileNotFound      = &NotFoundError{Entity: "organization profile"}
	ErrTokenNotFound        = &NotFoundError{Entity: "auth token"}
)

// Already Exists Errors
var (
	ErrOrganizationExists = &AlreadyExistsError{Entity: "organization", Context: "with this name", Field: "name"}
	ErrUsernameExists     = &AlreadyExistsError{Entity: "username", Field: "username"}
	ErrEmailExists        = &AlreadyExistsError{Entity: "email", Field: "email"}
	ErrAlreadyLinked      = &AlreadyExistsError{Entity: "organization profile", Context: "for this user", Field: "user"}
)

// Validation Errors
var (
	ErrWeakPassword = &ValidationError{Field: "password", Message: "Ensure this field has at least 8 characters."}
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "Unable to log in with provided credentials."}
	ErrInvalidPassword    = &AuthenticationError{Message: "invalid password"}
	ErrAccountDisabled    = &AuthenticationError{Message: "User account is disabled."}
	ErrMissingToken       = &AuthenticationError{Message: "Authentication credentials were not provided."}
	ErrInvalidToken       = &AuthenticationError{Message: "Invalid token."}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError or FieldErrors
func IsValidation(err error) bool {
	var validationErr *ValidationError
	var fieldErrs FieldErrors
	return errors.As(err, &validationErr) || errors.As(err, &fieldErrs)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// ToFieldErrors converts any validation or conflict error into a field to messages mapping.
// Errors without a field are reported under "non_field_errors". Joined errors are merged
// when every one of them converts.
func ToFieldErrors(err error) (FieldErrors, bool) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		merged := FieldErrors{}
		for _, e := range joined.Unwrap() {
			fieldErrs, ok := ToFieldErrors(e)
			if !ok {
				return nil, false
			}
			for field, messages := range fieldErrs {
				merged[field] = append(merged[field], messages...)
			}
		}
		return merged, len(merged) > 0
	}

	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return FieldErrors{fieldOrNonField(validationErr.Field): {validationErr.Message}}, true
	}

	var existsErr *AlreadyExistsError
	if errors.As(err, &existsErr) {
		return FieldErrors{fieldOrNonField(existsErr.Field): {capitalize(existsErr.Error()) + "."}}, true
	}

	return nil, false
}

func fieldOrNonField(field string) string {
	if field == "" {
		return "non_field_errors"
	}
	return field
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
