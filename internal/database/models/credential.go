package models

// Credential is the login identity of a user
type Credential struct {
	BaseModel
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:150" validate:"required,max=150"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:254" validate:"required,email,max=254"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	FirstName    string `json:"first_name" gorm:"size:150" validate:"max=150"`
	LastName     string `json:"last_name" gorm:"size:150" validate:"max=150"`
	IsActive     bool   `json:"is_active" gorm:"not null;default:true"`
}

// TableName returns the table name for Credential
func (Credential) TableName() string {
	return "credentials"
}

// DisplayName returns "First Last", falling back to the username when both are empty
func (c *Credential) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	default:
		return c.Username
	}
}
