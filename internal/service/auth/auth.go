package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
	"github.com/voxly-app/voxly/internal/service/auth/tokenmanager"
)

const authScheme = "Bearer"

type Config struct {
	// Hasher to use during sign in
	// BcryptHasher is used if not set
	Hasher PasswordHasher
}

// AuthService verifies credentials, issues access tokens and re-validates
// existing ones. It owns no state besides its collaborators.
type AuthService struct {
	token    *tokenmanager.TokenManager
	hasher   PasswordHasher
	userRepo repository.UserRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &AuthService{
		token:    token,
		hasher:   hasher,
		userRepo: userRepo,
	}, nil
}

// SignIn verifies the username and password pair and issues an access token.
// Absent user and wrong password are indistinguishable for the caller.
func (s *AuthService) SignIn(ctx context.Context, username string, password string) (models.IssuedToken, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.token.Issue(user)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return token, nil
}

// GetProfile resolves a fresh user record by id.
// Used for profile display and as the canonical subject resolution step
// after token verification, so role or profile changes are always reflected.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// Authorize verifies the token with expiration enforced and resolves
// its subject to a current user record
func (s *AuthService) Authorize(ctx context.Context, access string) (models.User, error) {
	claims, err := s.token.Parse(access, false)
	if err != nil {
		return models.User{}, apperrors.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.User{}, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, apperrors.ErrTokenInvalid
	}

	return user, nil
}

// Refresh derives a new access token from an expired but structurally valid
// one. Expiry is deliberately ignored; the signature is not. The subject must
// still exist and be active, and the new token carries the role as currently
// stored, not as originally issued.
func (s *AuthService) Refresh(ctx context.Context, access string) (models.IssuedToken, error) {
	claims, err := s.token.Parse(access, true)
	if err != nil {
		return models.IssuedToken{}, apperrors.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.IssuedToken{}, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.IssuedToken{}, apperrors.ErrTokenInvalid
	}

	if !user.Active {
		return models.IssuedToken{}, apperrors.ErrUserInactive
	}

	token, err := s.token.Issue(user)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return token, nil
}

// Identify extracts and verifies the bearer token of a request and returns
// the identity decoded from its claims. No store read happens here: the
// access guard is stateless and runs on every protected request.
func (s *AuthService) Identify(ctx context.Context, r *http.Request) (models.AuthUser, error) {
	access, err := bearerToken(r)
	if err != nil {
		return models.AuthUser{}, err
	}

	claims, err := s.token.Parse(access, false)
	if err != nil {
		return models.AuthUser{}, apperrors.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.AuthUser{}, apperrors.ErrTokenInvalid
	}

	return models.AuthUser{
		ID:       userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// bearerToken expects the Authorization header in the literal
// form "Bearer <token>"; anything else is a missing token
func bearerToken(r *http.Request) (string, error) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || scheme != authScheme || token == "" {
		return "", apperrors.ErrNoToken
	}

	return token, nil
}
