package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/media"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
	"github.com/voxly-app/voxly/internal/service/auth"
)

type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	BirthDate *time.Time
	Bio       *string

	// Optional profile image, uploaded to the media store
	Avatar *media.File
}

type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
	media    media.Store
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo, mediaStore media.Store) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
		media:    mediaStore,
	}
}

// Register creates a user with the default role and active flag set.
// The password is stored hashed only.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	var avatarURL, avatarKey *string
	if p.Avatar != nil {
		up, err := s.media.Upload(ctx, *p.Avatar)
		if err != nil {
			return user, fmt.Errorf("error while uploading avatar. Err: %w", err)
		}
		avatarURL, avatarKey = &up.URL, &up.Key
	}

	user, err = s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:     p.Username,
		PasswordHash: hash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		BirthDate:    p.BirthDate,
		Bio:          p.Bio,
		AvatarURL:    avatarURL,
		AvatarKey:    avatarKey,
		Role:         models.RoleUser,
	})
	if err != nil {
		return user, err
	}

	return user, nil
}

// List returns all users sorted by username
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}

// SetActive toggles the active flag (logical enable or disable).
// Administrators can not be disabled.
func (s *UserService) SetActive(ctx context.Context, userID uuid.UUID, active bool) (models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return user, err
	}

	if !active && user.IsAdmin() {
		return user, apperrors.ErrForbidden
	}

	return s.userRepo.SetUserActive(ctx, userID, active)
}
