// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"io"
	"log/slog"

	deliverycontext "munch/internal/delivery/context"
	"munch/internal/domain/entity"
	"munch/internal/domain/repository"
	"munch/internal/domain/service"
	"munch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	storage   service.ObjectStorage
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Storage   service.ObjectStorage
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		storage:   params.Storage,
		logger:    params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves a user together with their profile.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of the input to the user's profile
// and returns the updated user. The read-modify-write runs in one transaction.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Debug("Updating profile", slog.Any("userID", userID))

	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find user for profile update")
		}

		applyProfileUpdate(user, input)

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}

		updatedUser = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to execute profile update transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute profile update transaction")
	}

	return updatedUser, nil
}

func applyProfileUpdate(user *entity.User, input *usecase.UpdateProfileInput) {
	if input.Name != nil {
		user.Name = *input.Name
	}

	if user.Profile == nil {
		user.Profile = &entity.Profile{UserID: user.ID, Role: entity.RoleUser}
	}

	if input.FullName != nil {
		user.Profile.FullName = *input.FullName
	}
	if input.Address != nil {
		user.Profile.Address = *input.Address
	}
	if input.Country != nil {
		user.Profile.Country = *input.Country
	}
	if input.City != nil {
		user.Profile.City = *input.City
	}
	if input.PostalCode != nil {
		user.Profile.PostalCode = *input.PostalCode
	}
	if input.Phone != nil {
		user.Profile.Phone = *input.Phone
	}
	if input.FCMToken != nil {
		user.Profile.FCMToken = *input.FCMToken
	}
}

// UploadAvatar stores the avatar image and records its path on the profile.
func (srv *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, content io.Reader) (*usecase.UploadAvatarOutput, error) {
	srv.log(ctx).Debug("Uploading avatar", slog.Any("userID", userID))

	path, err := srv.storage.Upload(ctx, service.BucketUserAvatars, contentType, content)
	if err != nil {
		srv.log(ctx).Error("Failed to upload avatar", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to upload avatar")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find user for avatar update")
		}

		if user.Profile == nil {
			user.Profile = &entity.Profile{UserID: user.ID, Role: entity.RoleUser}
		}
		user.Profile.AvatarPath = path

		return errors.Wrap(userRepo.Update(ctx, user), "failed to record avatar path")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute avatar update transaction")
	}

	url, err := srv.storage.PublicURL(ctx, service.BucketUserAvatars, path)
	if err != nil {
		// The avatar is stored and recorded; the URL lookup is best-effort.
		srv.log(ctx).Warn("Failed to resolve avatar URL", slog.String("path", path), slog.Any("error", err))
		url = ""
	}

	return &usecase.UploadAvatarOutput{
		AvatarPath: path,
		AvatarURL:  url,
	}, nil
}

// GetUserRoles extracts the roles carried by the user's profile.
func (srv *profileService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user roles")
	}

	return user.RolesOf().ToStrings(), nil
}
