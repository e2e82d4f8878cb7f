package service_test

import (
	"sort"
	"time"

	"tenant-portal-backend/internal/auth"
	"tenant-portal-backend/internal/database/models"
	"tenant-portal-backend/internal/repository"
	"tenant-portal-backend/internal/service"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for Postgres that enforces the same unique
// keys and rolls back failed transactions.
type memStore struct {
	orgs     map[uuid.UUID]models.Organization
	creds    map[uuid.UUID]models.Credential
	profiles map[uuid.UUID]models.MemberProfile
	tokens   map[string]models.AuthToken
}

func newMemStore() *memStore {
	return &memStore{
		orgs:     map[uuid.UUID]models.Organization{},
		creds:    map[uuid.UUID]models.Credential{},
		profiles: map[uuid.UUID]models.MemberProfile{},
		tokens:   map[string]models.AuthToken{},
	}
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range m.orgs {
		c.orgs[k] = v
	}
	for k, v := range m.creds {
		c.creds[k] = v
	}
	for k, v := range m.profiles {
		c.profiles[k] = v
	}
	for k, v := range m.tokens {
		c.tokens[k] = v
	}
	return c
}

func (m *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Organizations: &memOrgRepo{m},
		Credentials:   &memCredRepo{m},
		Profiles:      &memProfileRepo{m},
		Tokens:        &memTokenRepo{m},
	}
}

func stamp(base *models.BaseModel) {
	_ = base.BeforeCreate(nil)
	now := time.Now()
	base.CreatedAt = now
	base.UpdatedAt = now
}

// memTransactor snapshots the store and restores it when fn fails. When blind is set,
// lookups by unique key inside the transaction miss, the way a concurrent commit that
// lands after the pre-check would; inserts still hit the unique keys.
type memTransactor struct {
	store *memStore
	blind bool
}

func (t *memTransactor) WithinTransaction(fn func(repos *repository.Repositories) error) error {
	saved := t.store.snapshot()
	repos := t.store.repositories()
	if t.blind {
		repos.Organizations = blindOrgRepo{repos.Organizations}
		repos.Credentials = blindCredRepo{repos.Credentials}
	}
	if err := fn(repos); err != nil {
		*t.store = *saved
		return err
	}
	return nil
}

type blindOrgRepo struct {
	repository.OrganizationRepositoryInterface
}

func (blindOrgRepo) GetByName(string) (*models.Organization, error) {
	return nil, gorm.ErrRecordNotFound
}

type blindCredRepo struct {
	repository.CredentialRepositoryInterface
}

func (blindCredRepo) GetByUsername(string) (*models.Credential, error) {
	return nil, gorm.ErrRecordNotFound
}

func (blindCredRepo) GetByEmail(string) (*models.Credential, error) {
	return nil, gorm.ErrRecordNotFound
}

type memOrgRepo struct{ s *memStore }

func (r *memOrgRepo) Create(org *models.Organization) error {
	for _, o := range r.s.orgs {
		if o.Name == org.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	stamp(&org.BaseModel)
	r.s.orgs[org.ID] = *org
	return nil
}

func (r *memOrgRepo) GetByID(id uuid.UUID) (*models.Organization, error) {
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *memOrgRepo) GetByName(name string) (*models.Organization, error) {
	for _, o := range r.s.orgs {
		if o.Name == name {
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrgRepo) GetAll() ([]models.Organization, error) {
	out := make([]models.Organization, 0, len(r.s.orgs))
	for _, o := range r.s.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memOrgRepo) Update(org *models.Organization) error {
	for id, o := range r.s.orgs {
		if id != org.ID && o.Name == org.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	org.UpdatedAt = time.Now()
	r.s.orgs[org.ID] = *org
	return nil
}

func (r *memOrgRepo) Delete(id uuid.UUID) error {
	delete(r.s.orgs, id)
	for pid, p := range r.s.profiles {
		if p.OrganizationID == id {
			delete(r.s.profiles, pid)
		}
	}
	return nil
}

func (r *memOrgRepo) GetWithProfiles(id uuid.UUID) (*models.Organization, error) {
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Profiles = nil
	for _, p := range r.s.profiles {
		if p.OrganizationID == id {
			p.Credential = r.s.creds[p.CredentialID]
			o.Profiles = append(o.Profiles, p)
		}
	}
	return &o, nil
}

func (r *memOrgRepo) CountProfiles(ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := map[uuid.UUID]int64{}
	for _, id := range ids {
		for _, p := range r.s.profiles {
			if p.OrganizationID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

type memCredRepo struct{ s *memStore }

func (r *memCredRepo) Create(c *models.Credential) error {
	for _, e := range r.s.creds {
		if e.Username == c.Username || e.Email == c.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	stamp(&c.BaseModel)
	r.s.creds[c.ID] = *c
	return nil
}

func (r *memCredRepo) GetByID(id uuid.UUID) (*models.Credential, error) {
	c, ok := r.s.creds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCredRepo) GetByUsername(username string) (*models.Credential, error) {
	for _, c := range r.s.creds {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCredRepo) GetByEmail(email string) (*models.Credential, error) {
	for _, c := range r.s.creds {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCredRepo) Update(c *models.Credential) error {
	for id, e := range r.s.creds {
		if id != c.ID && (e.Username == c.Username || e.Email == c.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	c.UpdatedAt = time.Now()
	r.s.creds[c.ID] = *c
	return nil
}

func (r *memCredRepo) Delete(id uuid.UUID) error {
	delete(r.s.creds, id)
	for pid, p := range r.s.profiles {
		if p.CredentialID == id {
			delete(r.s.profiles, pid)
		}
	}
	for key, t := range r.s.tokens {
		if t.CredentialID == id {
			delete(r.s.tokens, key)
		}
	}
	return nil
}

type memProfileRepo struct{ s *memStore }

func (r *memProfileRepo) hydrate(p models.MemberProfile) *models.MemberProfile {
	p.Credential = r.s.creds[p.CredentialID]
	p.Organization = r.s.orgs[p.OrganizationID]
	return &p
}

func (r *memProfileRepo) sorted(filter func(models.MemberProfile) bool) []models.MemberProfile {
	out := []models.MemberProfile{}
	for _, p := range r.s.profiles {
		if filter(p) {
			out = append(out, *r.hydrate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Credential.Username < out[j].Credential.Username })
	return out
}

func (r *memProfileRepo) Create(p *models.MemberProfile) error {
	for _, e := range r.s.profiles {
		if e.CredentialID == p.CredentialID {
			return gorm.ErrDuplicatedKey
		}
	}
	stamp(&p.BaseModel)
	stored := *p
	stored.Credential = models.Credential{}
	stored.Organization = models.Organization{}
	r.s.profiles[p.ID] = stored
	return nil
}

func (r *memProfileRepo) GetByID(id uuid.UUID) (*models.MemberProfile, error) {
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(p), nil
}

func (r *memProfileRepo) GetByCredentialID(credentialID uuid.UUID) (*models.MemberProfile, error) {
	for _, p := range r.s.profiles {
		if p.CredentialID == credentialID {
			return r.hydrate(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProfileRepo) GetAll() ([]models.MemberProfile, error) {
	return r.sorted(func(models.MemberProfile) bool { return true }), nil
}

func (r *memProfileRepo) GetByOrganizationID(orgID uuid.UUID) ([]models.MemberProfile, error) {
	return r.sorted(func(p models.MemberProfile) bool { return p.OrganizationID == orgID }), nil
}

func (r *memProfileRepo) Update(p *models.MemberProfile) error {
	stored := *p
	stored.Credential = models.Credential{}
	stored.Organization = models.Organization{}
	stored.UpdatedAt = time.Now()
	r.s.profiles[p.ID] = stored
	return nil
}

func (r *memProfileRepo) Delete(id uuid.UUID) error {
	delete(r.s.profiles, id)
	return nil
}

type memTokenRepo struct{ s *memStore }

func (r *memTokenRepo) Create(t *models.AuthToken) error {
	if _, ok := r.s.tokens[t.Key]; ok {
		return gorm.ErrDuplicatedKey
	}
	for _, e := range r.s.tokens {
		if e.CredentialID == t.CredentialID {
			return gorm.ErrDuplicatedKey
		}
	}
	t.CreatedAt = time.Now()
	r.s.tokens[t.Key] = *t
	return nil
}

func (r *memTokenRepo) GetByKey(key string) (*models.AuthToken, error) {
	t, ok := r.s.tokens[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memTokenRepo) GetByCredentialID(credentialID uuid.UUID) (*models.AuthToken, error) {
	for _, t := range r.s.tokens {
		if t.CredentialID == credentialID {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTokenRepo) DeleteByCredentialID(credentialID uuid.UUID) error {
	for key, t := range r.s.tokens {
		if t.CredentialID == credentialID {
			delete(r.s.tokens, key)
		}
	}
	return nil
}

// services wires every service on top of one in-memory store
type services struct {
	store         *memStore
	transactor    *memTransactor
	credentials   *service.CredentialService
	organizations *service.OrganizationService
	members       *service.MemberProfileService
	provisioning  *service.ProvisioningService
	sessions      *service.SessionService
}

func newServices() *services {
	store := newMemStore()
	repos := store.repositories()
	transactor := &memTransactor{store: store}
	v := service.NewValidator()

	credentials := service.NewCredentialService(repos.Credentials, repos.Tokens,
		auth.NewPasswordHasher(bcrypt.MinCost), auth.NewTokenIssuer("test-secret"), v)
	organizations := service.NewOrganizationService(repos.Organizations, v)
	members := service.NewMemberProfileService(repos.Profiles, repos.Organizations, transactor, credentials, v)

	return &services{
		store:         store,
		transactor:    transactor,
		credentials:   credentials,
		organizations: organizations,
		members:       members,
		provisioning:  service.NewProvisioningService(transactor, organizations, credentials, members, v, ""),
		sessions:      service.NewSessionService(credentials, members, v),
	}
}
