package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/logger"
	"tenant-portal-backend/internal/service"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// MemberData is one user registered into a seeded organization
type MemberData struct {
	Username    string `yaml:"username"`
	Email       string `yaml:"email"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Password    string `yaml:"password"`
	PhoneNumber string `yaml:"phone_number,omitempty"`
	Position    string `yaml:"position,omitempty"`
}

// OrganizationData is one organization created through signup, with its members
type OrganizationData struct {
	Name        string       `yaml:"name"`
	Email       string       `yaml:"email"`
	PhoneNumber string       `yaml:"phone_number"`
	Password    string       `yaml:"password"`
	Members     []MemberData `yaml:"members,omitempty"`
}

// File is the layout of a seed YAML file
type File struct {
	Organizations []OrganizationData `yaml:"organizations"`
}

// Result counts what a run created and what was already there
type Result struct {
	OrganizationsCreated int
	OrganizationsSkipped int
	MembersCreated       int
	MembersSkipped       int
}

// Load reads every .yaml/.yml file under dataDir, in lexical order
func Load(dataDir string) ([]OrganizationData, error) {
	var orgs []OrganizationData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var file File
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		orgs = append(orgs, file.Organizations...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orgs, nil
}

// Loader applies seed data through the provisioning workflows. Re-running it
// skips organizations and members that already exist.
type Loader struct {
	provisioning  service.ProvisioningServiceInterface
	organizations service.OrganizationServiceInterface
	log           *logger.Logger
}

// NewLoader creates a new seed loader
func NewLoader(provisioning service.ProvisioningServiceInterface, organizations service.OrganizationServiceInterface) *Loader {
	return &Loader{
		provisioning:  provisioning,
		organizations: organizations,
		log:           logger.New().WithField("component", "seed"),
	}
}

// Apply creates every organization and member in orgs
func (l *Loader) Apply(orgs []OrganizationData) (*Result, error) {
	result := &Result{}

	for _, org := range orgs {
		orgID, created, err := l.ensureOrganization(org)
		if err != nil {
			return result, fmt.Errorf("organization %q: %w", org.Name, err)
		}
		if created {
			result.OrganizationsCreated++
		} else {
			result.OrganizationsSkipped++
		}

		for _, member := range org.Members {
			created, err := l.registerMember(orgID, member)
			if err != nil {
				return result, fmt.Errorf("member %q of %q: %w", member.Username, org.Name, err)
			}
			if created {
				result.MembersCreated++
			} else {
				result.MembersSkipped++
			}
		}
	}

	return result, nil
}

func (l *Loader) ensureOrganization(org OrganizationData) (uuid.UUID, bool, error) {
	resp, err := l.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  org.Name,
		OrganizationEmail: org.Email,
		PhoneNumber:       org.PhoneNumber,
		Password:          org.Password,
	})
	if err == nil {
		l.log.WithField("organization", org.Name).Info("organization created")
		return resp.User.Organization, true, nil
	}
	if !errors.Is(err, apperrors.ErrOrganizationExists) {
		return uuid.Nil, false, err
	}

	existing, err := l.organizations.GetAll()
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, o := range existing {
		if o.Name == org.Name {
			l.log.WithField("organization", org.Name).Info("organization already exists, skipping")
			return o.ID, false, nil
		}
	}
	return uuid.Nil, false, apperrors.ErrOrganizationNotFound
}

func (l *Loader) registerMember(orgID uuid.UUID, member MemberData) (bool, error) {
	_, err := l.provisioning.Register(&service.RegistrationRequest{
		Username:     member.Username,
		Email:        member.Email,
		FirstName:    member.FirstName,
		LastName:     member.LastName,
		Password:     member.Password,
		Organization: orgID,
		PhoneNumber:  optional(member.PhoneNumber),
		Position:     optional(member.Position),
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrUsernameExists), errors.Is(err, apperrors.ErrEmailExists):
		l.log.WithField("username", member.Username).Info("member already exists, skipping")
		return false, nil
	default:
		return false, err
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
