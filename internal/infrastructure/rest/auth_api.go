package rest

import (
	"context"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// AuthAPI operaciones de autenticación y perfil del backend.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI construye el grupo de endpoints de autenticación.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// Login autentica con email y contraseña. Devuelve el token de acceso y el
// usuario autenticado.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (token string, user entity.User, err error) {
	var w tokenWire
	if err := a.client.post(ctx, "/auth/login-json", loginWire{Email: email, Password: password}, &w); err != nil {
		return "", entity.User{}, err
	}
	return w.AccessToken, w.User.toEntity(), nil
}

// Me obtiene el perfil del usuario autenticado.
func (a *AuthAPI) Me(ctx context.Context) (entity.User, error) {
	var w userWire
	if err := a.client.get(ctx, "/users/me", nil, &w); err != nil {
		return entity.User{}, err
	}
	return w.toEntity(), nil
}

// UpdateMe actualiza el perfil del usuario autenticado.
func (a *AuthAPI) UpdateMe(ctx context.Context, upd dto.ProfileUpdate) (entity.User, error) {
	body := userUpdateWire{
		Name:      upd.Name,
		Email:     upd.Email,
		AvatarURL: upd.Avatar,
	}
	var w userWire
	if err := a.client.put(ctx, "/users/me", body, &w); err != nil {
		return entity.User{}, err
	}
	return w.toEntity(), nil
}
