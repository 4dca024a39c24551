package service

import (
	"context"
	"testing"

	"agendasalon/internal/config"
	"agendasalon/internal/dto"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, assert.AnError
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, assert.AnError
	}
	return u, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newAuthFixture(t *testing.T) (AuthService, *model.Usuario) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.Usuario{
		ID: uuid.New(), Username: "recepcion1", Nombre: "Recepción",
		PasswordHash: string(hash), Rol: "recepcion", Activo: true,
	}
	repo := &stubUsuarioRepo{usuarios: map[uuid.UUID]*model.Usuario{user.ID: user}}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8, JWTRefreshHours: 168}
	return NewAuthService(repo, cfg), user
}

func TestLogin(t *testing.T) {
	svc, user := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion1", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.Equal(t, "recepcion", resp.User.Rol)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion1", Password: "otra"})
	assert.ErrorContains(t, err, "credenciales")
}

func TestLoginUsuarioInactivo(t *testing.T) {
	svc, user := newAuthFixture(t)
	user.Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion1", Password: "secreto123"})
	assert.ErrorContains(t, err, "credenciales")
}

func TestRefresh(t *testing.T) {
	svc, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion1", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}
