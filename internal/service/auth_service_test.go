package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/upload"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

type authFixture struct {
	svc    *AuthService
	repo   *stubUserRepo
	tokens *auth.TokenManager
	store  *fakeUploadStore
}

func newAuthFixture() *authFixture {
	repo := newStubUserRepo()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	store := newFakeUploadStore()
	svc := NewAuthService(AuthDependencies{
		UserRepo:   repo,
		TokenMgr:   tokens,
		Avatars:    upload.NewManager(store, 5*1024*1024, zap.NewNop()),
		BcryptCost: bcrypt.MinCost,
		Logger:     zap.NewNop(),
	})
	return &authFixture{svc: svc, repo: repo, tokens: tokens, store: store}
}

func TestRegister_ThenLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, token, exp, err := f.svc.Register(ctx, "alice_01", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleSupplier, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice_01", claims.Username)
	assert.Equal(t, user.ID, claims.UserID)

	logged, loginToken, _, err := f.svc.Login(ctx, "alice_01", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, loginToken)

	loginClaims, err := f.tokens.ParseToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, "alice_01", loginClaims.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := f.svc.Register(ctx, "bob_builder", "secret123")
	require.NoError(t, err)

	_, _, _, err = f.svc.Register(ctx, "bob_builder", "otherpass456")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestRegister_ReportsAllViolations(t *testing.T) {
	f := newAuthFixture()

	_, _, _, err := f.svc.Register(context.Background(), "a!", "123")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, "username")
	assert.Contains(t, domainErr.Details, "password")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := f.svc.Register(ctx, "carol_88", "secret123")
	require.NoError(t, err)

	_, _, _, wrongPass := f.svc.Login(ctx, "carol_88", "wrongpass")
	require.Error(t, wrongPass)
	_, _, _, unknownUser := f.svc.Login(ctx, "nobody_here", "secret123")
	require.Error(t, unknownUser)

	wrongErr := apperrors.ToDomainError(wrongPass)
	unknownErr := apperrors.ToDomainError(unknownUser)
	assert.Equal(t, http.StatusUnauthorized, wrongErr.HTTPStatus)
	assert.Equal(t, wrongErr.HTTPStatus, unknownErr.HTTPStatus)
	assert.Equal(t, wrongErr.Code, unknownErr.Code)
	assert.Equal(t, wrongErr.Message, unknownErr.Message)
}

func TestGetProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := f.svc.Register(ctx, "dave_77", "secret123")
	require.NoError(t, err)

	profile, err := f.svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	_, err = f.svc.GetProfile(ctx, "missing-id")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdateProfile_UsernameRules(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	alice, _, _, err := f.svc.Register(ctx, "alice_01", "secret123")
	require.NoError(t, err)
	_, _, _, err = f.svc.Register(ctx, "bob_02", "secret123")
	require.NoError(t, err)

	taken := "bob_02"
	_, err = f.svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &taken})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// Updating to the current value is a no-op, not a conflict.
	same := "alice_01"
	updated, err := f.svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &same})
	require.NoError(t, err)
	assert.Equal(t, "alice_01", updated.Username)

	fresh := "alice_renamed"
	updated, err = f.svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", updated.Username)

	bad := "x"
	_, err = f.svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &bad})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestUpdateProfile_AvatarReplacement(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := f.svc.Register(ctx, "eve_55", "secret123")
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Avatar: makeFileHeader(t, "me.png", "image/png", 512),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarPath)
	firstPath := *updated.AvatarPath
	assert.Empty(t, f.store.removed)

	updated, err = f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Avatar: makeFileHeader(t, "new.jpg", "image/jpeg", 512),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarPath)
	assert.NotEqual(t, firstPath, *updated.AvatarPath)

	// Old file removed only after the new path is persisted.
	require.Len(t, f.store.removed, 1)
	assert.Equal(t, firstPath, f.store.removed[0])
}

func TestUpdateProfile_RejectsBadUpload(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := f.svc.Register(ctx, "frank_44", "secret123")
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Avatar: makeFileHeader(t, "notes.txt", "text/plain", 64),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, statusOf(t, err))

	fresh, err := f.svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.AvatarPath)
}

func TestAdminCreateUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	admin, err := f.svc.AdminCreateUser(ctx, "root_user", "secret123", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	defaulted, err := f.svc.AdminCreateUser(ctx, "plain_user", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupplier, defaulted.Role)

	_, err = f.svc.AdminCreateUser(ctx, "odd_user", "secret123", "superuser")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestAdminUpdateUser_PasswordChange(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := f.svc.Register(ctx, "grace_33", "oldsecret")
	require.NoError(t, err)

	newPass := "newsecret"
	_, err = f.svc.AdminUpdateUser(ctx, user.ID, AdminUserUpdate{Password: &newPass})
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(ctx, "grace_33", "oldsecret")
	require.Error(t, err)
	_, _, _, err = f.svc.Login(ctx, "grace_33", "newsecret")
	require.NoError(t, err)

	short := "123"
	_, err = f.svc.AdminUpdateUser(ctx, user.ID, AdminUserUpdate{Password: &short})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestAdminDeleteUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	admin, err := f.svc.AdminCreateUser(ctx, "root_user", "secret123", domain.RoleAdmin)
	require.NoError(t, err)
	victim, _, _, err := f.svc.Register(ctx, "target_22", "secret123")
	require.NoError(t, err)

	err = f.svc.AdminDeleteUser(ctx, admin.ID, admin.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	err = f.svc.AdminDeleteUser(ctx, admin.ID, "missing-id")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	require.NoError(t, f.svc.AdminDeleteUser(ctx, admin.ID, victim.ID))

	_, _, _, err = f.svc.Login(ctx, "target_22", "secret123")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestListUsers(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := f.svc.Register(ctx, "user_one", "secret123")
	require.NoError(t, err)
	_, _, _, err = f.svc.Register(ctx, "user_two", "secret123")
	require.NoError(t, err)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
