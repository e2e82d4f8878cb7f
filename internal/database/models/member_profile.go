package models

import (
	"github.com/google/uuid"
)

// Well-known positions
const (
	PositionAdministrator = "Administrator"
)

// MemberProfile links one Credential to one Organization
type MemberProfile struct {
	BaseModel
	CredentialID   uuid.UUID `json:"credential_id" gorm:"type:uuid;not null;uniqueIndex" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	PhoneNumber    *string   `json:"phone_number" gorm:"size:20" validate:"omitempty,max=20"`
	Position       *string   `json:"position" gorm:"size:100" validate:"omitempty,max=100"`

	// Relationships
	Credential   Credential   `json:"credential,omitempty" gorm:"foreignKey:CredentialID;constraint:OnDelete:CASCADE"`
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for MemberProfile
func (MemberProfile) TableName() string {
	return "member_profiles"
}
