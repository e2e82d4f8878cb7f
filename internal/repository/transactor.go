package repository

import (
	"gorm.io/gorm"
)

// Repositories groups the repositories that share one *gorm.DB handle
type Repositories struct {
	Organizations OrganizationRepositoryInterface
	Credentials   CredentialRepositoryInterface
	Profiles      MemberProfileRepositoryInterface
	Tokens        AuthTokenRepositoryInterface
}

// NewRepositories builds every repository on the given handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Organizations: NewOrganizationRepository(db),
		Credentials:   NewCredentialRepository(db),
		Profiles:      NewMemberProfileRepository(db),
		Tokens:        NewAuthTokenRepository(db),
	}
}

// Transactor runs functions inside a database transaction
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise
func (t *Transactor) WithinTransaction(fn func(repos *Repositories) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
