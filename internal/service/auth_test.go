package service

import (
	"context"
	"testing"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(users *stubUserRepo, tokens TokenIssuer) *AuthService {
	svc := NewAuthService(users, tokens)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuth(users, stubTokens{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, " alice ", "secret", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.Token)
	assert.Equal(t, "Bearer", resp.Type)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))

	resp, err = svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.Token)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(newStubUserRepo(), stubTokens{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	assert.Equal(t, "Invalid credentials", errs.As(err).Message)

	_, err = svc.Login(ctx, "bob", "secret")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	assert.Equal(t, "Invalid credentials", errs.As(err).Message)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuth(users, stubTokens{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", domain.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Equal(t, "Username is already taken", errs.As(err).Message)

	all, _ := users.FindAll(ctx)
	assert.Len(t, all, 1)
	assert.Equal(t, domain.RoleUser, all[0].Role)
}

func TestAuthService_RegisterRaceMapsToConflict(t *testing.T) {
	users := newStubUserRepo()
	users.createErr = errs.ErrDuplicate
	svc := newTestAuth(users, stubTokens{})

	_, err := svc.Register(context.Background(), "alice", "secret", domain.RoleUser)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuth(newStubUserRepo(), stubTokens{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "  ", "secret", domain.RoleUser)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	_, err = svc.Register(ctx, "alice", "", domain.RoleUser)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	_, err = svc.Register(ctx, "alice", "secret", domain.Role("ROOT"))
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuth(users, stubTokens{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "boss", "secret", domain.RoleAdmin)
	require.NoError(t, err)

	stored, err := users.FindByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestAuthService_TokenFailureIsInternal(t *testing.T) {
	svc := newTestAuth(newStubUserRepo(), stubTokens{err: errBoom})

	_, err := svc.Register(context.Background(), "alice", "secret", domain.RoleUser)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	assert.ErrorIs(t, err, errBoom)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuth(users, stubTokens{})
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "changed")
	require.NoError(t, err)
	assert.False(t, created)

	admins, _ := users.FindByRole(ctx, domain.RoleAdmin)
	require.Len(t, admins, 1)

	_, err = svc.Login(ctx, "admin", "admin")
	assert.NoError(t, err)
}
