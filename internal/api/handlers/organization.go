package handlers

import (
	"net/http"

	"tenant-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler handles HTTP requests for organizations
type OrganizationHandler struct {
	service service.OrganizationServiceInterface
	members service.MemberServiceInterface
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(service service.OrganizationServiceInterface, members service.MemberServiceInterface) *OrganizationHandler {
	return &OrganizationHandler{service: service, members: members}
}

// ListOrganizations handles GET /api/organizations/ and GET /api/organizations-list/
// @Summary List organizations
// @Description List every organization ordered by name, each with its users count
// @Tags organizations
// @Produce json
// @Success 200 {array} service.OrganizationResponse "Organizations"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /organizations/ [get]
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.service.GetAll()
	if err != nil {
		respondError(c, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, orgs)
}

// CreateOrganization handles POST /api/organizations/
// @Summary Create a new organization
// @Description Create a new organization with the provided details
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body service.CreateOrganizationRequest true "Organization data"
// @Success 201 {object} service.OrganizationResponse "Successfully created organization"
// @Failure 400 {object} map[string][]string "Validation failed or name already taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /organizations/ [post]
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req service.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GetOrganization handles GET /api/organizations/:id/
// @Summary Get organization by ID
// @Description Get an organization with the summaries of its users
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} service.OrganizationDetailResponse "Organization with users"
// @Failure 400 {object} ErrorResponse "Invalid organization ID"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /organizations/{id}/ [get]
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}

	org, err := h.service.GetDetail(id)
	if err != nil {
		respondError(c, err, "Failed to get organization")
		return
	}

	c.JSON(http.StatusOK, org)
}

// UpdateOrganization handles PUT /api/organizations/:id/
// @Summary Replace an organization
// @Description Update name and address; both are required
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param organization body service.UpdateOrganizationRequest true "Organization data"
// @Success 200 {object} service.OrganizationResponse "Updated organization"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /organizations/{id}/ [put]
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	h.update(c, false)
}

// PatchOrganization handles PATCH /api/organizations/:id/
// @Summary Partially update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param organization body service.UpdateOrganizationRequest true "Fields to change"
// @Success 200 {object} service.OrganizationResponse "Updated organization"
// @Failure 400 {object} map[string][]string "Validation failed"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /organizations/{id}/ [patch]
func (h *OrganizationHandler) PatchOrganization(c *gin.Context) {
	h.update(c, true)
}

func (h *OrganizationHandler) update(c *gin.Context, partial bool) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}

	var req service.UpdateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.service.Update(id, &req, partial)
	if err != nil {
		respondError(c, err, "Failed to update organization")
		return
	}

	c.JSON(http.StatusOK, org)
}

// DeleteOrganization handles DELETE /api/organizations/:id/
// @Summary Delete an organization
// @Description Delete an organization together with its member profiles
// @Tags organizations
// @Param id path string true "Organization ID (UUID)"
// @Success 204 "Organization deleted"
// @Failure 400 {object} ErrorResponse "Invalid organization ID"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /organizations/{id}/ [delete]
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err, "Failed to delete organization")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListOrganizationUsers handles GET /api/organizations/:id/users/
// @Summary List the members of an organization
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {array} service.MemberResponse "Members"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /organizations/{id}/users/ [get]
func (h *OrganizationHandler) ListOrganizationUsers(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}

	members, err := h.members.ListByOrganization(id)
	if err != nil {
		respondError(c, err, "Failed to list organization users")
		return
	}

	c.JSON(http.StatusOK, members)
}
