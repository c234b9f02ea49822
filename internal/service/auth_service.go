package service

import (
	"context"
	"errors"
	"mime/multipart"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/observability"
	"github.com/spec-kit/supplier-service/internal/repository"
	"github.com/spec-kit/supplier-service/internal/upload"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,}$`)

const minPasswordLength = 6

// ProfileUpdate carries the optional fields of a self-service profile update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	Avatar   *multipart.FileHeader
}

// AdminUserUpdate carries the optional fields of an administrative update.
type AdminUserUpdate struct {
	Username *string
	Password *string
	Role     *domain.Role
	Avatar   *multipart.FileHeader
}

// AuthService coordinates registration, login, profile and account
// administration flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    *auth.RevocationList
	avatars    *upload.Manager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	TokenMgr   *auth.TokenManager
	Revoked    *auth.RevocationList
	Avatars    *upload.Manager
	BcryptCost int
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenMgr,
		revoked:    deps.Revoked,
		avatars:    deps.Avatars,
		bcryptCost: deps.BcryptCost,
		logger:     deps.Logger,
	}
}

// Register creates a new account with the default role and returns it along
// with an issued token. Only the admin path may assign another role.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.createUser(ctx, username, password, domain.RoleSupplier)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates by username and password. Unknown username and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	return user, token, exp, nil
}

// GetProfile returns the caller's own account.
func (s *AuthService) GetProfile(ctx context.Context, callerID string) (*domain.User, error) {
	return s.getUser(ctx, callerID)
}

// ListUsers returns all accounts.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// UpdateProfile applies a partial update to the caller's own account. When a
// new avatar accompanies the request the new file is stored before the old
// one is removed, so a failed write never leaves the account without one.
func (s *AuthService) UpdateProfile(ctx context.Context, callerID string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, user, AdminUserUpdate{Username: upd.Username, Avatar: upd.Avatar})
}

// AdminCreateUser creates an account with an explicit role.
func (s *AuthService) AdminCreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleSupplier
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid user data",
			map[string]any{"role": "role must be admin or supplier"})
	}
	return s.createUser(ctx, username, password, role)
}

// AdminUpdateUser applies a partial update to any account.
func (s *AuthService) AdminUpdateUser(ctx context.Context, targetID string, upd AdminUserUpdate) (*domain.User, error) {
	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, user, upd)
}

// AdminDeleteUser removes an account. Deleting the acting principal's own
// account is rejected. Outstanding tokens of the target are denylisted for
// the remaining token window.
func (s *AuthService) AdminDeleteUser(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return apperrors.NewInvalidRequest("cannot delete your own account")
	}

	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.NewInternalError(err)
	}

	if err := s.revoked.Revoke(ctx, targetID, s.tokenMgr.TTL()); err != nil {
		s.logger.Warn("failed to revoke tokens of deleted user",
			zap.String("user_id", targetID), zap.Error(err))
	}

	if user.AvatarPath != nil {
		s.avatars.RemoveFile(*user.AvatarPath)
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index is the authoritative signal.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username already taken", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) applyUpdate(ctx context.Context, user *domain.User, upd AdminUserUpdate) (*domain.User, error) {
	if upd.Username != nil && *upd.Username != user.Username {
		if !usernamePattern.MatchString(*upd.Username) {
			return nil, apperrors.NewValidationError("invalid user data",
				map[string]any{"username": "username must be at least 3 characters of letters, digits or underscore"})
		}
		if existing, err := s.users.GetByUsername(ctx, *upd.Username); err == nil && existing.ID != user.ID {
			return nil, apperrors.NewConflict("username already taken", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		user.Username = *upd.Username
	}

	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return nil, apperrors.NewValidationError("invalid user data",
				map[string]any{"password": "password must be at least 6 characters"})
		}
		hash, err := auth.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid user data",
				map[string]any{"role": "role must be admin or supplier"})
		}
		user.Role = *upd.Role
	}

	var oldAvatar string
	if upd.Avatar != nil {
		path, err := s.avatars.StoreFile(upd.Avatar, "avatar")
		if err != nil {
			return nil, err
		}
		if user.AvatarPath != nil {
			oldAvatar = *user.AvatarPath
		}
		user.AvatarPath = &path
	}

	if err := s.users.Update(ctx, user); err != nil {
		// The freshly written file is orphaned if the record write fails.
		if upd.Avatar != nil && user.AvatarPath != nil {
			s.avatars.RemoveFile(*user.AvatarPath)
		}
		switch {
		case repository.IsUniqueViolation(err):
			return nil, apperrors.NewConflict("username already taken", nil)
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("user", nil)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	// Old file goes last, after the new path is durably persisted.
	if oldAvatar != "" {
		s.avatars.RemoveFile(oldAvatar)
	}
	return user, nil
}

func (s *AuthService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// validateCredentials reports every violation at once.
func validateCredentials(username, password string) error {
	details := map[string]any{}
	if !usernamePattern.MatchString(username) {
		details["username"] = "username must be at least 3 characters of letters, digits or underscore"
	}
	if len(password) < minPasswordLength {
		details["password"] = "password must be at least 6 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration data", details)
	}
	return nil
}
