package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/repository"
	"github.com/victor-a-l-001/techchallenger-auth/internal/token"
)

const (
	testAccessTTL   = time.Hour
	testRefreshTTL  = 24 * time.Hour
	testRememberTTL = 168 * time.Hour
)

func newTestService(t *testing.T) (*AuthService, *repository.MemoryUserRepository, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	users := repository.NewMemoryUserRepository()
	users.Put(newTestUser(t, 1, "professor@nulo.com.br", model.RoleProfessor, false))
	users.Put(newTestUser(t, 2, "aluno@nulo.com.br", model.RoleAluno, false))

	svc, err := NewAuthService(codec, users, testAccessTTL, testRefreshTTL, testRememberTTL)
	require.NoError(t, err)
	return svc, users, codec
}

func newTestUser(t *testing.T, id int, email string, role model.Role, disabled bool) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{
		ID:           id,
		Name:         role.String(),
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role,
		Disabled:     disabled,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	svc, _, codec := newTestService(t)

	pair, err := svc.Login(context.Background(), "professor@nulo.com.br", "123456", false)
	require.NoError(t, err)

	access, err := codec.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "1", access.Subject)
	require.Equal(t, model.RoleProfessor, access.UserTypeID)
	require.Equal(t, []string{"Professor"}, access.User.Roles)
	require.Equal(t, pair.AccessExpiresAt.Unix(), access.ExpiresAt.Unix())

	refresh, err := codec.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "1", refresh.Subject)
	require.False(t, refresh.Remember)
	require.Equal(t, int64(testRefreshTTL.Seconds()), refresh.ExpiresAt.Unix()-refresh.IssuedAt.Unix())
}

func TestLoginUnknownEmailAndWrongPasswordAreIdentical(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, errUnknown := svc.Login(context.Background(), "nobody@nulo.com.br", "123456", false)
	require.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)

	_, errWrongPass := svc.Login(context.Background(), "professor@nulo.com.br", "errada", false)
	require.ErrorIs(t, errWrongPass, model.ErrInvalidCredentials)
}

func TestLoginDoesNotBlockDisabledAccounts(t *testing.T) {
	svc, users, _ := newTestService(t)
	users.Put(newTestUser(t, 3, "inativo@nulo.com.br", model.RoleAluno, true))

	_, err := svc.Login(context.Background(), "inativo@nulo.com.br", "123456", false)
	require.NoError(t, err)
}

func TestLoginRememberExtendsRefreshTTL(t *testing.T) {
	svc, _, codec := newTestService(t)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", true)
	require.NoError(t, err)

	claims, err := codec.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, claims.Remember)
	require.Equal(t, int64(testRememberTTL.Seconds()), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestRefreshRotatesAndPreservesRemember(t *testing.T) {
	svc, _, codec := newTestService(t)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", true)
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := codec.VerifyRefresh(rotated.RefreshToken)
	require.NoError(t, err)
	require.True(t, claims.Remember)
	require.Equal(t, int64(testRememberTTL.Seconds()), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())

	access, err := codec.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "2", access.Subject)
}

func TestRefreshMissingToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "")
	require.ErrorIs(t, err, model.ErrRefreshMissing)
}

func TestRefreshRejectsGarbageAndAccessTokens(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "nem.um.jwt")
	require.ErrorIs(t, err, model.ErrRefreshInvalid)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", false)
	require.NoError(t, err)

	// An access token is not accepted on the refresh path.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, model.ErrRefreshInvalid)
}

func TestRefreshAfterUserDeleted(t *testing.T) {
	svc, users, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", false)
	require.NoError(t, err)

	users.Remove(2)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestRefreshAfterUserDisabled(t *testing.T) {
	svc, users, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", false)
	require.NoError(t, err)

	disabled := newTestUser(t, 2, "aluno@nulo.com.br", model.RoleAluno, true)
	users.Put(disabled)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrUserDisabled)
}

func TestRefreshRederivesRoleFromCurrentRecord(t *testing.T) {
	svc, users, codec := newTestService(t)

	pair, err := svc.Login(context.Background(), "aluno@nulo.com.br", "123456", false)
	require.NoError(t, err)

	promoted := newTestUser(t, 2, "aluno@nulo.com.br", model.RoleProfessor, false)
	users.Put(promoted)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	access, err := codec.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, model.RoleProfessor, access.UserTypeID)
	require.Equal(t, []string{"Professor"}, access.User.Roles)
}

func TestSessionReportsClaims(t *testing.T) {
	svc, _, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "professor@nulo.com.br", "123456", false)
	require.NoError(t, err)

	view, err := svc.Session(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "1", view.Subject)
	require.Equal(t, model.RoleProfessor, view.UserTypeID)
	require.Equal(t, "professor@nulo.com.br", view.User.Email)
	require.Equal(t, pair.AccessExpiresAt.Unix(), view.ExpiresAt)
	require.Equal(t, view.IssuedAt+int64(testAccessTTL.Seconds()), view.ExpiresAt)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	users := repository.NewMemoryUserRepository()
	users.Put(newTestUser(t, 1, "professor@nulo.com.br", model.RoleProfessor, false))
	svc, err := NewAuthService(codec, users, testAccessTTL, testRefreshTTL, testRememberTTL)
	require.NoError(t, err)

	expired, _, err := codec.SignAccess(model.User{ID: 1, RoleID: model.RoleProfessor}, "Professor", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Session(expired)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}
