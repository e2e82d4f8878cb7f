package handlers

import (
	"net/http"

	"tenant-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles HTTP requests for organization members
type UserHandler struct {
	service service.MemberServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(service service.MemberServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers handles GET /api/users/
// @Summary List members
// @Description List members of every organization, or of one with ?organization=<uuid>
// @Tags users
// @Produce json
// @Param organization query string false "Organization ID (UUID)"
// @Success 200 {array} service.MemberResponse "Members"
// @Failure 400 {object} ErrorResponse "Invalid organization ID"
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var orgID *uuid.UUID
	if raw, present := c.GetQuery("organization"); present {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid organization ID: invalid UUID format"})
			return
		}
		orgID = &parsed
	}

	members, err := h.service.List(orgID)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, members)
}

// CreateUser handles POST /api/users/
// @Summary Create a member
// @Description Create a credential and link it to an organization; password is required
// @Tags users
// @Accept json
// @Produce json
// @Param user body service.CreateMemberRequest true "Member data"
// @Success 201 {object} service.MemberResponse "Created member"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Router /users/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GetUser handles GET /api/users/:id/
// @Summary Get a member
// @Tags users
// @Produce json
// @Param id path string true "Member profile ID (UUID)"
// @Success 200 {object} service.MemberResponse "Member"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Router /users/{id}/ [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	member, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateUser handles PUT /api/users/:id/
// @Summary Replace a member
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "Member profile ID (UUID)"
// @Param user body service.UpdateMemberRequest true "Member data"
// @Success 200 {object} service.MemberResponse "Updated member"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Router /users/{id}/ [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	h.update(c, false)
}

// PatchUser handles PATCH /api/users/:id/
// @Summary Partially update a member
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "Member profile ID (UUID)"
// @Param user body service.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} service.MemberResponse "Updated member"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Router /users/{id}/ [patch]
func (h *UserHandler) PatchUser(c *gin.Context) {
	h.update(c, true)
}

func (h *UserHandler) update(c *gin.Context, partial bool) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req service.UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.service.Update(id, &req, partial)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteUser handles DELETE /api/users/:id/
// @Summary Delete a member
// @Description Delete the member profile; the login credential is kept
// @Tags users
// @Param id path string true "Member profile ID (UUID)"
// @Success 204 "Member deleted"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Router /users/{id}/ [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
