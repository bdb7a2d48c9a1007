package impl

import (
	"context"
	"strings"
	"testing"

	"munch/internal/domain/entity"
	"munch/internal/domain/repository"
	"munch/internal/domain/service"
	mockRepo "munch/internal/mocks/repository"
	mockSvc "munch/internal/mocks/service"
	"munch/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service   usecase.ProfileUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	storage   *mockSvc.MockObjectStorage
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	storage := mockSvc.NewMockObjectStorage(t)

	service := NewProfileService(ProfileServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Storage:   storage,
		Logger:    newDiscardLogger(),
	})

	return profileServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		storage:   storage,
	}
}

// expectUserTransaction routes txManager.Execute through a factory serving the
// given user repository.
func expectUserTransaction(t *testing.T, txManager *mockRepo.MockTransactionManager, userRepo *mockRepo.MockUserRepository) {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().UserRepo().Return(userRepo)

	txManager.EXPECT().Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func TestProfileService_GetProfile(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	fetched, err := fx.service.GetProfile(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user, fetched)
}

func TestProfileService_UpdateProfile_AppliesPartialFields(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)
	user.Profile.City = "Old Town"

	txUserRepo := mockRepo.NewMockUserRepository(t)
	expectUserTransaction(t, fx.txManager, txUserRepo)

	txUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	txUserRepo.EXPECT().Update(ctx, mock.Anything).Return(nil)

	newName := "Renamed Shopper"
	newPhone := "+15550100"
	updated, err := fx.service.UpdateProfile(ctx, user.ID, &usecase.UpdateProfileInput{
		Name:  &newName,
		Phone: &newPhone,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed Shopper", updated.Name)
	assert.Equal(t, "+15550100", updated.Profile.Phone)
	// Untouched fields keep their values.
	assert.Equal(t, "Old Town", updated.Profile.City)
}

func TestProfileService_UpdateProfile_CreatesMissingProfile(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)
	user.Profile = nil

	txUserRepo := mockRepo.NewMockUserRepository(t)
	expectUserTransaction(t, fx.txManager, txUserRepo)

	txUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	txUserRepo.EXPECT().Update(ctx, mock.Anything).Return(nil)

	fcmToken := "fcm-token-9"
	updated, err := fx.service.UpdateProfile(ctx, user.ID, &usecase.UpdateProfileInput{
		FCMToken: &fcmToken,
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, entity.RoleUser, updated.Profile.Role)
	assert.Equal(t, "fcm-token-9", updated.Profile.FCMToken)
}

func TestProfileService_UpdateProfile_UserNotFound(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)

	txUserRepo := mockRepo.NewMockUserRepository(t)
	expectUserTransaction(t, fx.txManager, txUserRepo)

	txUserRepo.EXPECT().FindByID(ctx, user.ID).Return(nil, repository.ErrUserNotFound)

	newName := "Nobody"
	updated, err := fx.service.UpdateProfile(ctx, user.ID, &usecase.UpdateProfileInput{Name: &newName})

	require.Error(t, err)
	assert.Nil(t, updated)
}

func TestProfileService_UploadAvatar(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)
	content := strings.NewReader("jpeg bytes")

	fx.storage.EXPECT().Upload(ctx, service.BucketUserAvatars, "image/jpeg", content).
		Return("avatars/xyz.jpg", nil)

	txUserRepo := mockRepo.NewMockUserRepository(t)
	expectUserTransaction(t, fx.txManager, txUserRepo)

	txUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	txUserRepo.EXPECT().Update(ctx, mock.Anything).
		Run(func(_ context.Context, updated *entity.User) {
			assert.Equal(t, "avatars/xyz.jpg", updated.Profile.AvatarPath)
		}).
		Return(nil)

	fx.storage.EXPECT().PublicURL(ctx, service.BucketUserAvatars, "avatars/xyz.jpg").
		Return("https://cdn.example.com/avatars/xyz.jpg", nil)

	output, err := fx.service.UploadAvatar(ctx, user.ID, "image/jpeg", content)

	require.NoError(t, err)
	assert.Equal(t, "avatars/xyz.jpg", output.AvatarPath)
	assert.Equal(t, "https://cdn.example.com/avatars/xyz.jpg", output.AvatarURL)
}

func TestProfileService_UploadAvatar_StorageFailure(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	user := newTestUser(entity.RoleUser)
	content := strings.NewReader("jpeg bytes")

	fx.storage.EXPECT().Upload(ctx, service.BucketUserAvatars, "image/jpeg", content).
		Return("", assert.AnError)

	output, err := fx.service.UploadAvatar(ctx, user.ID, "image/jpeg", content)

	require.Error(t, err)
	assert.Nil(t, output)
}

func TestProfileService_GetUserRoles(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()

	shopper := newTestUser(entity.RoleUser)
	fx.userRepo.EXPECT().FindByID(ctx, shopper.ID).Return(shopper, nil)

	roles, err := fx.service.GetUserRoles(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, roles)

	admin := newTestUser(entity.RoleAdmin)
	fx.userRepo.EXPECT().FindByID(ctx, admin.ID).Return(admin, nil)

	roles, err = fx.service.GetUserRoles(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "admin"}, roles)
}
