package models

// Organization represents the tenant root entity
type Organization struct {
	BaseModel
	Name    string `json:"name" gorm:"uniqueIndex;not null;size:200" validate:"required,min=1,max=200"`
	Address string `json:"address" gorm:"type:text;not null" validate:"required"`

	// Relationships
	Profiles []MemberProfile `json:"profiles,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
