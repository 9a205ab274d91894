package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Role landing paths.
var rolePaths = map[string]string{
	"buyer":  "/",
	"seller": "/seller/dashboard",
	"admin":  "/admin",
}

// RoleHome is where a user with role lands after signing in.
func RoleHome(role string) string {
	if p, ok := rolePaths[role]; ok {
		return p
	}
	return "/"
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// User is the profile the server returns with a session.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	AccountType string  `json:"account_type"`
	Address     Address `json:"address"`
}

type Session struct {
	Token string
	User  User
}

func (s Session) Authenticated() bool { return s.Token != "" }

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login signs in and stores the session. It returns the path to go to next.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register creates the account and stores the session it comes back with.
func (c *Client) Register(ctx context.Context, r Registration) (string, error) {
	return c.authenticate(ctx, "/auth/register", r)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", generic(nil)
	}
	if err := c.saveSession(resp.Token, resp.User); err != nil {
		return "", generic(err)
	}
	return RoleHome(resp.User.AccountType), nil
}

func (c *Client) saveSession(token string, u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := c.store.Set(KeyToken, token); err != nil {
		return err
	}
	if err := c.store.Set(KeyUser, string(raw)); err != nil {
		_ = c.store.Delete(KeyToken)
		return err
	}
	return nil
}

// Logout asks the server to revoke the token, then forgets the session
// whatever the server said.
func (c *Client) Logout(ctx context.Context) error {
	var serverErr error
	if token, ok := c.store.Get(KeyToken); ok && token != "" {
		serverErr = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, true)
	}
	if err := c.store.Delete(KeyToken); err != nil {
		return generic(err)
	}
	if err := c.store.Delete(KeyUser); err != nil {
		return generic(err)
	}
	if IsUnauthorized(serverErr) {
		return nil
	}
	return serverErr
}

// Session reads the stored session. A missing or unreadable session comes
// back empty.
func (c *Client) Session() Session {
	token, ok := c.store.Get(KeyToken)
	if !ok || token == "" {
		return Session{}
	}
	var u User
	if raw, ok := c.store.Get(KeyUser); ok {
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return Session{}
		}
	}
	return Session{Token: token, User: u}
}

// Authenticated lets the client gate the checkout flow.
func (c *Client) Authenticated() bool {
	return c.Session().Authenticated()
}
