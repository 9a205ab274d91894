package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/checkout"
)

func TestRoleHome(t *testing.T) {
	assert.Equal(t, "/", RoleHome("buyer"))
	assert.Equal(t, "/seller/dashboard", RoleHome("seller"))
	assert.Equal(t, "/admin", RoleHome("admin"))
	assert.Equal(t, "/", RoleHome("superuser"))
	assert.Equal(t, "/", RoleHome(""))
}

func fakeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsSessionAndReturnsRolePath(t *testing.T) {
	srv := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var creds Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "seller@example.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful","token":"tok-1","user":{"id":"u1","name":"Ravi","account_type":"seller"}}`))
	})

	store := NewMemoryStorage()
	c := New(srv.URL, store)
	path, err := c.Login(context.Background(), Credentials{Email: "seller@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "/seller/dashboard", path)

	token, ok := store.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	rawUser, ok := store.Get(KeyUser)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"u1","email":"","name":"Ravi","phone":"","account_type":"seller","address":{"street":"","city":"","state":"","postal_code":"","country":""}}`, rawUser)

	s := c.Session()
	assert.True(t, s.Authenticated())
	assert.Equal(t, "Ravi", s.User.Name)
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		message string
	}{
		{
			name: "server message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid email or password"}`))
			},
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name: "unparseable error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			status:  http.StatusBadGateway,
			message: GenericMessage,
		},
		{
			name: "unparseable success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			message: GenericMessage,
		},
		{
			name: "no token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"user":{"account_type":"buyer"}}`))
			},
			message: GenericMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			srv := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				tc.handler(w, r)
			})
			store := NewMemoryStorage()
			c := New(srv.URL, store)

			_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.message, e.Message)
			assert.Equal(t, tc.status, e.Status)
			assert.Equal(t, 1, calls, "failed requests are not retried")

			_, ok := store.Get(KeyToken)
			assert.False(t, ok)
			assert.False(t, c.Authenticated())
		})
	}
}

func TestNetworkErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Register(context.Background(), Registration{Name: "A", Email: "a@b.c", Password: "secret"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, GenericMessage, e.Message)
	assert.Zero(t, e.Status)
	assert.NotNil(t, e.Unwrap())
}

func TestLogoutClearsSessionEvenWhenServerRejects(t *testing.T) {
	var gotAuth string
	srv := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token has been revoked"}`))
	})
	store := NewMemoryStorage()
	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Set(KeyUser, `{"name":"x"}`))

	c := New(srv.URL, store)
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "Bearer tok", gotAuth)
	_, ok := store.Get(KeyToken)
	assert.False(t, ok)
	_, ok = store.Get(KeyUser)
	assert.False(t, ok)

	// without a session there is nothing to revoke
	require.NoError(t, New("http://127.0.0.1:1", store).Logout(context.Background()))
}

func TestSessionIgnoresCorruptUser(t *testing.T) {
	store := NewMemoryStorage()
	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Set(KeyUser, "{"))
	assert.False(t, New("http://unused", store).Authenticated())
}

func TestSaveAddressNeedsSession(t *testing.T) {
	c := New("http://unused", nil)
	err := c.SaveAddress(context.Background(), checkout.ShippingDetails{City: "Pune"})
	assert.ErrorIs(t, err, ErrNoSession)
	assert.True(t, IsUnauthorized(err))
}

func TestCheckoutRedirectsToLoginWithoutSession(t *testing.T) {
	c := New("http://unused", nil)
	lc := LoadLocalCart(NewMemoryStorage(), cart.DefaultPricing())
	require.NoError(t, lc.AddItem(cart.Product{ID: "1", Name: "Go", Price: decimal.NewFromInt(10)}, 1))

	flow := checkout.New(lc.Store, c, c)
	step, err := flow.Proceed()
	assert.ErrorIs(t, err, checkout.ErrNotAuthenticated)
	assert.Equal(t, "/login", step.Redirect)
	assert.Equal(t, checkout.StateCart, flow.State())
}
