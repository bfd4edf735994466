package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthProvider(t *testing.T) {
	provider, err := BuildAuthProvider(AuthConfig{})
	assert.NoError(t, err)
	assert.Nil(t, provider)

	provider, err = BuildAuthProvider(AuthConfig{Type: "none"})
	assert.NoError(t, err)
	assert.Nil(t, provider)

	provider, err = BuildAuthProvider(AuthConfig{Type: "Basic", Username: "key", Password: "secret"})
	require.NoError(t, err)
	assert.IsType(t, &BasicAuth{}, provider)

	provider, err = BuildAuthProvider(AuthConfig{Type: "bearer", Token: "t0k3n"})
	require.NoError(t, err)
	assert.IsType(t, &BearerAuth{}, provider)

	_, err = BuildAuthProvider(AuthConfig{Type: "bearer"})
	assert.Error(t, err)

	_, err = BuildAuthProvider(AuthConfig{Type: "oauth2"})
	assert.Error(t, err)

	_, err = BuildAuthProvider(AuthConfig{Type: "kerberos"})
	assert.EqualError(t, err, "unknown auth type: kerberos")
}

func TestStaticHeaders(t *testing.T) {
	header, err := (&BasicAuth{Username: "key", Password: "secret"}).AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic a2V5OnNlY3JldA==", header)

	header, err = (&BearerAuth{Token: "t0k3n"}).AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0k3n", header)
}

func TestOAuth2RefreshAndCache(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-me", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","expires_in":3600}`))
	}))
	defer ts.Close()

	o := &OAuth2Auth{ClientID: "client", ClientSecret: "s", TokenURL: ts.URL, RefreshToken: "refresh-me"}

	header, err := o.AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", header)

	// Second call is served from the cached token
	header, err = o.AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", header)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuth2TokenWithoutExpiry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"forever","token_type":"bearer"}`))
	}))
	defer ts.Close()

	o := &OAuth2Auth{TokenURL: ts.URL, RefreshToken: "refresh-me", HTTPClient: ts.Client()}

	for i := 0; i < 3; i++ {
		header, err := o.AuthHeader(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer forever", header)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuth2TokenError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid_grant"))
	}))
	defer ts.Close()

	o := &OAuth2Auth{TokenURL: ts.URL}
	_, err := o.AuthHeader(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")

	tsEmpty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":60}`))
	}))
	defer tsEmpty.Close()

	o = &OAuth2Auth{TokenURL: tsEmpty.URL}
	_, err = o.AuthHeader(context.Background())
	assert.Error(t, err)
}
