package service_test

import (
	"testing"

	"tenant-portal-backend/internal/database/models"
	apperrors "tenant-portal-backend/internal/errors"
	"tenant-portal-backend/internal/mocks"
	"tenant-portal-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	ctrl                *gomock.Controller
	mockOrgRepo         *mocks.MockOrganizationRepositoryInterface
	organizationService *service.OrganizationService
}

// SetupTest sets up the test suite
func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrgRepo = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.organizationService = service.NewOrganizationService(suite.mockOrgRepo, service.NewValidator())
}

// TearDownTest cleans up after each test
func (suite *OrganizationServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func strPtr(s string) *string { return &s }

// TestCreateOrganization tests creating an organization
func (suite *OrganizationServiceTestSuite) TestCreateOrganization() {
	req := &service.CreateOrganizationRequest{Name: "Acme Co", Address: "1 Main St"}

	suite.mockOrgRepo.EXPECT().GetByName("Acme Co").Return(nil, gorm.ErrRecordNotFound).Times(1)
	suite.mockOrgRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)

	response, err := suite.organizationService.Create(req)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Acme Co", response.Name)
	assert.Equal(suite.T(), "1 Main St", response.Address)
	assert.Zero(suite.T(), response.UsersCount)
}

// TestCreateOrganizationValidationError tests creating an organization with validation error
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationValidationError() {
	response, err := suite.organizationService.Create(&service.CreateOrganizationRequest{Name: ""})

	assert.Nil(suite.T(), response)
	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), []string{"This field is required."}, fieldErrs["name"])
	assert.Equal(suite.T(), []string{"This field is required."}, fieldErrs["address"])
}

// TestCreateOrganizationNameTooLong tests the name length limit
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationNameTooLong() {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	_, err := suite.organizationService.Create(&service.CreateOrganizationRequest{Name: string(long), Address: "x"})

	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), []string{"Ensure this field has no more than 200 characters."}, fieldErrs["name"])
}

// TestCreateOrganizationDuplicateName tests creating an organization with an existing name
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationDuplicateName() {
	suite.mockOrgRepo.EXPECT().GetByName("Acme Co").Return(&models.Organization{Name: "Acme Co"}, nil).Times(1)

	_, err := suite.organizationService.Create(&service.CreateOrganizationRequest{Name: "Acme Co", Address: "x"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
}

// TestCreateOrganizationInsertRace tests that a unique violation resolves to a conflict
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationInsertRace() {
	gomock.InOrder(
		suite.mockOrgRepo.EXPECT().GetByName("Acme Co").Return(nil, gorm.ErrRecordNotFound),
		suite.mockOrgRepo.EXPECT().Create(gomock.Any()).Return(gorm.ErrDuplicatedKey),
		suite.mockOrgRepo.EXPECT().GetByName("Acme Co").Return(&models.Organization{Name: "Acme Co"}, nil),
	)

	_, err := suite.organizationService.Create(&service.CreateOrganizationRequest{Name: "Acme Co", Address: "x"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
}

// TestGetByIDNotFound tests retrieving a missing organization
func (suite *OrganizationServiceTestSuite) TestGetByIDNotFound() {
	id := uuid.New()
	suite.mockOrgRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound).Times(1)

	_, err := suite.organizationService.GetByID(id)

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationNotFound)
}

// TestGetAll tests listing organizations with their users count
func (suite *OrganizationServiceTestSuite) TestGetAll() {
	a := models.Organization{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Acme Co"}
	b := models.Organization{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Globex"}

	suite.mockOrgRepo.EXPECT().GetAll().Return([]models.Organization{a, b}, nil).Times(1)
	suite.mockOrgRepo.EXPECT().
		CountProfiles([]uuid.UUID{a.ID, b.ID}).
		Return(map[uuid.UUID]int64{a.ID: 3}, nil).
		Times(1)

	orgs, err := suite.organizationService.GetAll()

	suite.Require().NoError(err)
	suite.Require().Len(orgs, 2)
	assert.Equal(suite.T(), "Acme Co", orgs[0].Name)
	assert.Equal(suite.T(), int64(3), orgs[0].UsersCount)
	assert.Equal(suite.T(), int64(0), orgs[1].UsersCount)
}

// TestGetDetail tests the organization detail projection
func (suite *OrganizationServiceTestSuite) TestGetDetail() {
	orgID := uuid.New()
	org := &models.Organization{
		BaseModel: models.BaseModel{ID: orgID},
		Name:      "Acme Co",
		Address:   "1 Main St",
		Profiles: []models.MemberProfile{
			{
				BaseModel:      models.BaseModel{ID: uuid.New()},
				OrganizationID: orgID,
				Credential:     models.Credential{Username: "jdoe", Email: "jdoe@acme.test", FirstName: "John", LastName: "Doe"},
			},
			{
				BaseModel:      models.BaseModel{ID: uuid.New()},
				OrganizationID: orgID,
				Credential:     models.Credential{Username: "solo", Email: "solo@acme.test"},
			},
		},
	}
	suite.mockOrgRepo.EXPECT().GetWithProfiles(orgID).Return(org, nil).Times(1)

	detail, err := suite.organizationService.GetDetail(orgID)

	suite.Require().NoError(err)
	suite.Require().Len(detail.Users, 2)
	assert.Equal(suite.T(), "John Doe", detail.Users[0].Name)
	assert.Equal(suite.T(), "solo", detail.Users[1].Name)
	assert.Equal(suite.T(), "Acme Co", detail.Users[0].OrganizationName)
	assert.Equal(suite.T(), orgID, detail.Users[1].Organization)
}

// TestUpdatePutRequiresAllFields tests that a full update needs name and address
func (suite *OrganizationServiceTestSuite) TestUpdatePutRequiresAllFields() {
	_, err := suite.organizationService.Update(uuid.New(), &service.UpdateOrganizationRequest{Name: strPtr("New")}, false)

	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Contains(suite.T(), fieldErrs, "address")
	assert.NotContains(suite.T(), fieldErrs, "name")
}

// TestUpdatePatch tests a partial update
func (suite *OrganizationServiceTestSuite) TestUpdatePatch() {
	id := uuid.New()
	existing := &models.Organization{BaseModel: models.BaseModel{ID: id}, Name: "Acme Co", Address: "old"}

	suite.mockOrgRepo.EXPECT().GetByID(id).Return(existing, nil).Times(1)
	suite.mockOrgRepo.EXPECT().
		Update(gomock.Any()).
		DoAndReturn(func(org *models.Organization) error {
			assert.Equal(suite.T(), "Acme Co", org.Name)
			assert.Equal(suite.T(), "new", org.Address)
			return nil
		}).
		Times(1)
	suite.mockOrgRepo.EXPECT().CountProfiles([]uuid.UUID{id}).Return(map[uuid.UUID]int64{id: 1}, nil).Times(1)

	response, err := suite.organizationService.Update(id, &service.UpdateOrganizationRequest{Address: strPtr("new")}, true)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "new", response.Address)
	assert.Equal(suite.T(), int64(1), response.UsersCount)
}

// TestUpdateBlankName tests that an explicit empty name is rejected
func (suite *OrganizationServiceTestSuite) TestUpdateBlankName() {
	_, err := suite.organizationService.Update(uuid.New(), &service.UpdateOrganizationRequest{Name: strPtr("")}, true)

	fieldErrs, ok := apperrors.ToFieldErrors(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), []string{"This field may not be blank."}, fieldErrs["name"])
}

// TestUpdateRenameToTakenName tests renaming onto an existing organization
func (suite *OrganizationServiceTestSuite) TestUpdateRenameToTakenName() {
	id := uuid.New()
	suite.mockOrgRepo.EXPECT().GetByID(id).Return(&models.Organization{BaseModel: models.BaseModel{ID: id}, Name: "Acme Co"}, nil)
	suite.mockOrgRepo.EXPECT().GetByName("Globex").Return(&models.Organization{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Globex"}, nil)

	_, err := suite.organizationService.Update(id, &service.UpdateOrganizationRequest{Name: strPtr("Globex")}, true)

	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
}

// TestDeleteOrganization tests deleting an organization
func (suite *OrganizationServiceTestSuite) TestDeleteOrganization() {
	id := uuid.New()
	suite.mockOrgRepo.EXPECT().GetByID(id).Return(&models.Organization{BaseModel: models.BaseModel{ID: id}}, nil).Times(1)
	suite.mockOrgRepo.EXPECT().Delete(id).Return(nil).Times(1)

	assert.NoError(suite.T(), suite.organizationService.Delete(id))
}

// TestDeleteOrganizationNotFound tests deleting a missing organization
func (suite *OrganizationServiceTestSuite) TestDeleteOrganizationNotFound() {
	id := uuid.New()
	suite.mockOrgRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound).Times(1)

	assert.ErrorIs(suite.T(), suite.organizationService.Delete(id), apperrors.ErrOrganizationNotFound)
}

// TestOrganizationServiceTestSuite runs the test suite
func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
