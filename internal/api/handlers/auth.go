package handlers

import (
	"errors"
	"net/http"

	"tenant-portal-backend/internal/auth"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and the current-user endpoints
type AuthHandler struct {
	provisioning service.ProvisioningServiceInterface
	sessions     service.SessionServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(provisioning service.ProvisioningServiceInterface, sessions service.SessionServiceInterface) *AuthHandler {
	return &AuthHandler{provisioning: provisioning, sessions: sessions}
}

// MessageResponse carries a human readable outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// Signup handles POST /api/auth/signup/
// @Summary Register a new organization
// @Description Create an organization, its administrator credential and profile in one step
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body service.SignupRequest true "Signup data"
// @Success 201 {object} service.ProvisioningResponse "Organization registered"
// @Failure 400 {object} map[string][]string "Validation failed or already taken"
// @Router /auth/signup/ [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.provisioning.Signup(&req)
	if err != nil {
		respondError(c, err, "Failed to register organization")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterUser handles POST /api/auth/user-registration/
// @Summary Register a member into an existing organization
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body service.RegistrationRequest true "Registration data"
// @Success 201 {object} service.ProvisioningResponse "User registered"
// @Failure 400 {object} map[string][]string "Validation failed, unknown organization or already taken"
// @Router /auth/user-registration/ [post]
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req service.RegistrationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.provisioning.Register(&req)
	if err != nil {
		if errors.Is(err, apperrors.ErrOrganizationNotFound) {
			c.JSON(http.StatusBadRequest, apperrors.FieldErrors{"organization": {"Organization does not exist."}})
			return
		}
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login/
// @Summary Log in
// @Description Verify username and password and return the credential's token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Username and password"
// @Success 200 {object} service.LoginResponse "Login successful"
// @Failure 400 {object} map[string][]string "non_field_errors"
// @Router /auth/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.sessions.Login(&req)
	if err != nil {
		if apperrors.IsAuthentication(err) {
			c.JSON(http.StatusBadRequest, apperrors.FieldErrors{"non_field_errors": {err.Error()}})
			return
		}
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout/
// @Summary Log out
// @Description Revoke the caller's token
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse "Logout successful"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Security TokenAuth
// @Router /auth/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	h.sessions.Logout(session)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Profile handles GET /api/auth/profile/
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} service.MemberResponse "Profile"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Failure 404 {object} ErrorResponse "Organization profile not found"
// @Security TokenAuth
// @Router /auth/profile/ [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	profile, err := h.sessions.GetProfile(session)
	if err != nil {
		respondError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/auth/update-profile/
// @Summary Update the current user profile
// @Description Partial update; the organization cannot be changed here
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body service.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} service.MemberResponse "Updated profile"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Failure 404 {object} ErrorResponse "Organization profile not found"
// @Security TokenAuth
// @Router /auth/update-profile/ [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.sessions.UpdateProfile(session, &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) session(c *gin.Context) (*auth.Session, bool) {
	session, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: apperrors.ErrMissingToken.Error()})
		return nil, false
	}
	return session, true
}
