package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// AuthConfig describes how requests to SheetDB are authorised.
// SheetDB API keys can be protected with basic auth or a bearer token.
type AuthConfig struct {
	Type         string `mapstructure:"type"` // none, basic, bearer, oauth2
	Username     string `mapstructure:"username,omitempty"`
	Password     string `mapstructure:"password,omitempty"`
	Token        string `mapstructure:"token,omitempty"`
	ClientID     string `mapstructure:"client_id,omitempty"`
	ClientSecret string `mapstructure:"client_secret,omitempty"`
	TokenURL     string `mapstructure:"token_url,omitempty"`
	RefreshToken string `mapstructure:"refresh_token,omitempty"`
}

// AuthProvider returns the value of the Authorization header for an upstream request.
type AuthProvider interface {
	AuthHeader(ctx context.Context) (string, error)
}

type BasicAuth struct {
	Username string
	Password string
}

func (b *BasicAuth) AuthHeader(context.Context) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	return "Basic " + encoded, nil
}

type BearerAuth struct {
	Token string
}

func (b *BearerAuth) AuthHeader(context.Context) (string, error) {
	return "Bearer " + b.Token, nil
}

// OAuth2Auth exchanges a refresh token for access tokens. The token source
// caches each access token until it expires.
type OAuth2Auth struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RefreshToken string
	HTTPClient   *http.Client

	once   sync.Once
	source oauth2.TokenSource
}

func (o *OAuth2Auth) AuthHeader(context.Context) (string, error) {
	o.once.Do(func() {
		cfg := &oauth2.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  o.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		// Refreshes outlive the request that triggered them.
		tokenCtx := context.Background()
		if o.HTTPClient != nil {
			tokenCtx = context.WithValue(tokenCtx, oauth2.HTTPClient, o.HTTPClient)
		}
		o.source = cfg.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: o.RefreshToken})
	})

	token, err := o.source.Token()
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	return token.Type() + " " + token.AccessToken, nil
}

// BuildAuthProvider returns nil for "none" or an empty type.
func BuildAuthProvider(cfg AuthConfig) (AuthProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "none":
		return nil, nil
	case "basic":
		return &BasicAuth{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "bearer":
		if cfg.Token == "" {
			return nil, errors.New("bearer auth requires a token")
		}
		return &BearerAuth{
			Token: cfg.Token,
		}, nil
	case "oauth2":
		if cfg.TokenURL == "" {
			return nil, errors.New("oauth2 auth requires a token_url")
		}
		return &OAuth2Auth{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			RefreshToken: cfg.RefreshToken,
		}, nil
	default:
		return nil, errors.New("unknown auth type: " + cfg.Type)
	}
}
