package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

type createdProfile struct {
	identity *model.Identity
	doctor   *model.DoctorProfile
	patient  *model.PatientProfile
}

type fakeIdentityRepo struct {
	repository.IdentityRepository
	byUsername map[string]*model.Identity
	byID       map[uuid.UUID]*model.Identity
	created    []createdProfile
	deleted    []uuid.UUID
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		byUsername: map[string]*model.Identity{},
		byID:       map[uuid.UUID]*model.Identity{},
	}
}

func (f *fakeIdentityRepo) GetByUsername(_ context.Context, username string) (*model.Identity, error) {
	if i, ok := f.byUsername[username]; ok {
		return i, nil
	}
	return nil, apperrors.NotFound("identity", nil)
}

func (f *fakeIdentityRepo) Get(_ context.Context, id uuid.UUID) (*model.Identity, error) {
	if i, ok := f.byID[id]; ok {
		return i, nil
	}
	return nil, apperrors.NotFound("identity", nil)
}

func (f *fakeIdentityRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIdentityRepo) CreateWithProfile(_ context.Context, identity *model.Identity, doctor *model.DoctorProfile, patient *model.PatientProfile) error {
	f.byUsername[identity.Username] = identity
	f.created = append(f.created, createdProfile{identity: identity, doctor: doctor, patient: patient})
	return nil
}

type fakeOutboxRepo struct {
	repository.OutboxRepository
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newService(repo *fakeIdentityRepo, outbox *fakeOutboxRepo) *Service {
	return NewService(repo, event.NewService(outbox), nil, logger.NewLogger(nil))
}

func TestSignupDoctorCreatesDoctorProfile(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	identity, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username:      "drsmith",
		Email:         "drsmith@example.com",
		Password:      "password123",
		Role:          "doctor",
		Specialty:     "Cardiology",
		LicenseNumber: "MD-1234",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, identity.Role)
	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].doctor)
	assert.Nil(t, repo.created[0].patient)
	assert.Equal(t, "Cardiology", repo.created[0].doctor.Specialty)
	assert.Equal(t, identity.ID, repo.created[0].doctor.IdentityID)
}

func TestSignupPatientCreatesPatientProfile(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	identity, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "password123",
		Role:     "patient",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RolePatient, identity.Role)
	require.Len(t, repo.created, 1)
	assert.Nil(t, repo.created[0].doctor)
	require.NotNil(t, repo.created[0].patient)
	assert.False(t, repo.created[0].patient.RegistrationComplete)
}

func TestSignupHashesPassword(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	identity, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "password123",
		Role:     "patient",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "password123", identity.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte("password123")))
}

func TestSignupDuplicateUsername(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.byUsername["jdoe"] = &model.Identity{Base: model.Base{ID: uuid.New()}, Username: "jdoe"}
	svc := newService(repo, &fakeOutboxRepo{})

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "password123",
		Role:     "patient",
	})

	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))
	assert.Empty(t, repo.created)
}

func TestSignupRejectsAdminRole(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "password123",
		Role:     "admin",
	})

	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))
	assert.Empty(t, repo.created)
}

func TestSignupEmitsEvent(t *testing.T) {
	repo := newFakeIdentityRepo()
	outbox := &fakeOutboxRepo{}
	svc := newService(repo, outbox)

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "password123",
		Role:     "patient",
	})
	require.NoError(t, err)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "identity.created", outbox.events[0].EventType)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	repo := newFakeIdentityRepo()
	target := &model.Identity{Base: model.Base{ID: uuid.New()}, Username: "jdoe"}
	repo.byID[target.ID] = target
	svc := newService(repo, &fakeOutboxRepo{})

	err := svc.Delete(context.Background(), &model.TokenClaims{Role: model.RoleDoctor}, target.ID)

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
	assert.Empty(t, repo.deleted)
}

func TestDelete(t *testing.T) {
	repo := newFakeIdentityRepo()
	target := &model.Identity{Base: model.Base{ID: uuid.New()}, Username: "jdoe"}
	repo.byID[target.ID] = target
	outbox := &fakeOutboxRepo{}
	svc := newService(repo, outbox)

	err := svc.Delete(context.Background(), &model.TokenClaims{Role: model.RoleAdmin}, target.ID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{target.ID}, repo.deleted)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, "identity.deleted", outbox.events[0].EventType)
}

func TestGetRequiresAdmin(t *testing.T) {
	repo := newFakeIdentityRepo()
	target := &model.Identity{Base: model.Base{ID: uuid.New()}, Username: "jdoe"}
	repo.byID[target.ID] = target
	svc := newService(repo, &fakeOutboxRepo{})

	_, err := svc.Get(context.Background(), &model.TokenClaims{Role: model.RolePatient}, target.ID)
	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))

	got, err := svc.Get(context.Background(), &model.TokenClaims{Role: model.RoleAdmin}, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}
