package authenticating

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleUserInfo busca o perfil do usuário na API OAuth2 do Google
type GoogleUserInfo struct{}

func NewGoogleUserInfo() *GoogleUserInfo {
	return &GoogleUserInfo{}
}

func (g *GoogleUserInfo) Fetch(ctx context.Context, token *oauth2.Token) (*domain.User, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, errors.Wrap(err, "criando cliente da API de userinfo")
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "consultando userinfo")
	}

	if info.Email == "" {
		return nil, errors.New("resposta de userinfo sem email")
	}

	return &domain.User{
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}
