package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the single live bearer token of a credential
type AuthToken struct {
	Key          string    `json:"key" gorm:"primaryKey;size:512"`
	CredentialID uuid.UUID `json:"credential_id" gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt    time.Time `json:"created_at"`

	Credential Credential `json:"-" gorm:"foreignKey:CredentialID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for AuthToken
func (AuthToken) TableName() string {
	return "auth_tokens"
}
