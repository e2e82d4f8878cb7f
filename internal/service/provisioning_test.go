package service_test

import (
	"testing"

	"tenant-portal-backend/internal/config"
	"tenant-portal-backend/internal/database/models"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ProvisioningServiceTestSuite runs the signup and registration workflows against an in-memory store
type ProvisioningServiceTestSuite struct {
	suite.Suite
	svc *services
}

func (suite *ProvisioningServiceTestSuite) SetupTest() {
	suite.svc = newServices()
}

func (suite *ProvisioningServiceTestSuite) signup(name, email string) *service.ProvisioningResponse {
	resp, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  name,
		OrganizationEmail: email,
		PhoneNumber:       "+15550100",
		Password:          "secretpw",
	})
	suite.Require().NoError(err)
	return resp
}

func (suite *ProvisioningServiceTestSuite) TestSignupCreatesOneOfEach() {
	resp := suite.signup("Acme Co", "admin@acme.test")

	assert.Len(suite.T(), suite.svc.store.orgs, 1)
	assert.Len(suite.T(), suite.svc.store.creds, 1)
	assert.Len(suite.T(), suite.svc.store.profiles, 1)
	assert.Equal(suite.T(), "Acme Co", resp.User.OrganizationName)
	assert.Equal(suite.T(), "Organization registered successfully", resp.Message)
}

func (suite *ProvisioningServiceTestSuite) TestSignupDefaults() {
	resp := suite.signup("Acme Co", "admin@acme.test")

	assert.Equal(suite.T(), "acme_co", resp.User.Username)
	assert.Equal(suite.T(), "Admin", resp.User.FirstName)
	assert.Equal(suite.T(), "User", resp.User.LastName)
	require.NotNil(suite.T(), resp.User.Position)
	assert.Equal(suite.T(), models.PositionAdministrator, *resp.User.Position)
	require.NotNil(suite.T(), resp.User.PhoneNumber)
	assert.Equal(suite.T(), "+15550100", *resp.User.PhoneNumber)

	org := suite.svc.store.orgs[resp.User.Organization]
	assert.Equal(suite.T(), config.DefaultAddressPlaceholder, org.Address)
}

func (suite *ProvisioningServiceTestSuite) TestSignupDuplicateOrganizationName() {
	suite.signup("Acme Co", "admin@acme.test")

	_, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  "Acme Co",
		OrganizationEmail: "other@acme.test",
		PhoneNumber:       "+15550101",
		Password:          "secretpw",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
	assert.Len(suite.T(), suite.svc.store.orgs, 1)
	assert.Len(suite.T(), suite.svc.store.creds, 1)
	_, lookupErr := suite.svc.store.repositories().Credentials.GetByEmail("other@acme.test")
	assert.Error(suite.T(), lookupErr)
}

func (suite *ProvisioningServiceTestSuite) TestSignupDuplicateEmailRollsBackOrganization() {
	suite.signup("Acme Co", "admin@acme.test")

	_, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  "Globex",
		OrganizationEmail: "admin@acme.test",
		PhoneNumber:       "+15550101",
		Password:          "secretpw",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrEmailExists)
	assert.Len(suite.T(), suite.svc.store.orgs, 1)
}

func (suite *ProvisioningServiceTestSuite) TestSignupValidation() {
	_, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  "",
		OrganizationEmail: "not-an-email",
		PhoneNumber:       "+15550100",
		Password:          "short",
	})

	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Contains(suite.T(), fieldErrs, "organization_name")
	assert.Contains(suite.T(), fieldErrs, "organization_email")
	assert.Equal(suite.T(), []string{"Ensure this field has at least 8 characters."}, fieldErrs["password"])
	assert.Empty(suite.T(), suite.svc.store.orgs)
}

func (suite *ProvisioningServiceTestSuite) TestRegister() {
	admin := suite.signup("Acme Co", "admin@acme.test")
	position := "Engineer"

	resp, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
		Username:     "jdoe",
		Email:        "jdoe@acme.test",
		FirstName:    "John",
		LastName:     "Doe",
		Password:     "secretpw",
		Organization: admin.User.Organization,
		Position:     &position,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "jdoe", resp.User.Username)
	assert.Equal(suite.T(), "Acme Co", resp.User.OrganizationName)
	assert.Nil(suite.T(), resp.User.PhoneNumber)
	assert.Equal(suite.T(), "User registered successfully to organization", resp.Message)
	assert.Len(suite.T(), suite.svc.store.profiles, 2)
}

func (suite *ProvisioningServiceTestSuite) TestRegisterUnknownOrganization() {
	_, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
		Username:     "jdoe",
		Email:        "jdoe@acme.test",
		FirstName:    "John",
		LastName:     "Doe",
		Password:     "secretpw",
		Organization: uuid.New(),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationNotFound)
	assert.Empty(suite.T(), suite.svc.store.creds)
	assert.Empty(suite.T(), suite.svc.store.profiles)
}

func (suite *ProvisioningServiceTestSuite) TestRegisterDuplicateUsername() {
	admin := suite.signup("Acme Co", "admin@acme.test")

	_, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
		Username:     "acme_co",
		Email:        "someone@acme.test",
		FirstName:    "Some",
		LastName:     "One",
		Password:     "secretpw",
		Organization: admin.User.Organization,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUsernameExists)
	assert.Len(suite.T(), suite.svc.store.creds, 1)
}

func (suite *ProvisioningServiceTestSuite) TestRegisterNameLimits() {
	admin := suite.signup("Acme Co", "admin@acme.test")

	_, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
		Username:     "jdoe",
		Email:        "jdoe@acme.test",
		FirstName:    "Abcdefghijklmnopqrstuvwxyzabcde",
		LastName:     "Doe",
		Password:     "secretpw",
		Organization: admin.User.Organization,
	})

	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), []string{"Ensure this field has no more than 30 characters."}, fieldErrs["first_name"])
}

func (suite *ProvisioningServiceTestSuite) TestRegisterReportsEveryConflict() {
	suite.signup("Acme Co", "admin@acme.test")

	_, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
		Username:     "acme_co",
		Email:        "admin@acme.test",
		FirstName:    "Some",
		LastName:     "One",
		Password:     "secretpw",
		Organization: uuid.New(),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUsernameExists)
	assert.ErrorIs(suite.T(), err, apperrors.ErrEmailExists)
	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), []string{"Username already exists."}, fieldErrs["username"])
	assert.Equal(suite.T(), []string{"Email already exists."}, fieldErrs["email"])
	assert.Equal(suite.T(), []string{"Organization does not exist."}, fieldErrs["organization"])
	assert.Len(suite.T(), suite.svc.store.creds, 1)
}

// The cases below let the uniqueness pre-checks pass and leave the unique keys to
// reject the insert, as when another request commits first.

func (suite *ProvisioningServiceTestSuite) TestSignupOrganizationNameTakenAtInsert() {
	suite.signup("Acme Co", "admin@acme.test")
	suite.svc.transactor.blind = true

	_, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  "Acme Co",
		OrganizationEmail: "other@acme.test",
		PhoneNumber:       "+15550101",
		Password:          "secretpw",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
	assert.Len(suite.T(), suite.svc.store.orgs, 1)
	assert.Len(suite.T(), suite.svc.store.creds, 1)
	assert.Len(suite.T(), suite.svc.store.profiles, 1)
}

func (suite *ProvisioningServiceTestSuite) TestSignupEmailTakenAtInsert() {
	suite.signup("Acme Co", "admin@acme.test")
	suite.svc.transactor.blind = true

	_, err := suite.svc.provisioning.Signup(&service.SignupRequest{
		OrganizationName:  "Globex",
		OrganizationEmail: "admin@acme.test",
		PhoneNumber:       "+15550101",
		Password:          "secretpw",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrEmailExists)
	assert.Len(suite.T(), suite.svc.store.orgs, 1)
	assert.Len(suite.T(), suite.svc.store.creds, 1)
	assert.Len(suite.T(), suite.svc.store.profiles, 1)
}

func (suite *ProvisioningServiceTestSuite) TestRegisterTakenAtInsert() {
	admin := suite.signup("Acme Co", "admin@acme.test")
	suite.svc.transactor.blind = true

	cases := []struct {
		name     string
		username string
		email    string
		want     error
	}{
		{"username", "acme_co", "someone@acme.test", apperrors.ErrUsernameExists},
		{"email", "someone", "admin@acme.test", apperrors.ErrEmailExists},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.svc.provisioning.Register(&service.RegistrationRequest{
				Username:     tc.username,
				Email:        tc.email,
				FirstName:    "Some",
				LastName:     "One",
				Password:     "secretpw",
				Organization: admin.User.Organization,
			})

			assert.ErrorIs(suite.T(), err, tc.want)
			assert.Len(suite.T(), suite.svc.store.creds, 1)
			assert.Len(suite.T(), suite.svc.store.profiles, 1)
		})
	}
}

func TestSignupUsername(t *testing.T) {
	assert.Equal(t, "acme_co", service.SignupUsername("Acme Co"))
	assert.Equal(t, "big_blue_corp", service.SignupUsername("Big Blue Corp"))
	assert.Equal(t, "solo", service.SignupUsername("SOLO"))
}

func TestProvisioningServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProvisioningServiceTestSuite))
}
