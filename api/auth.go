package api

import (
	"context"
	"errors"
	"net/http"
)

// AuthService wraps the /api/auth endpoints. The refresh credential travels as a
// cookie named by the service's cookie name.
type AuthService struct {
	c      *Client
	cookie string
}

// Auth returns the auth endpoints, presenting the refresh credential as cookie.
func (c *Client) Auth(cookie string) *AuthService {
	return &AuthService{c: c, cookie: cookie}
}

// Login exchanges credentials for an access token. The refresh credential is taken
// from the body's refreshToken field or, failing that, from the Set-Cookie header.
func (s *AuthService) Login(ctx context.Context, p LoginParam) (TokenPayload, error) {
	req, err := NewRequest(http.MethodPost, "/api/auth/login", p)
	if err != nil {
		return TokenPayload{}, err
	}
	return s.exchange(ctx, req)
}

// Refresh exchanges a refresh credential for a new access token. When the server
// rotates the credential the returned payload carries the new one.
func (s *AuthService) Refresh(ctx context.Context, credential string) (TokenPayload, error) {
	req, err := NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	if err != nil {
		return TokenPayload{}, err
	}
	req.Header.Set("Cookie", (&http.Cookie{Name: s.cookie, Value: credential}).String())
	return s.exchange(ctx, req)
}

// Logout asks the server to end the session. Callers treat failure as advisory.
func (s *AuthService) Logout(ctx context.Context, credential string) error {
	req, err := NewRequest(http.MethodDelete, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if credential != "" {
		req.Header.Set("Cookie", (&http.Cookie{Name: s.cookie, Value: credential}).String())
	}
	_, err = s.c.Do(ctx, req)
	return err
}

func (s *AuthService) exchange(ctx context.Context, req *Request) (TokenPayload, error) {
	resp, err := s.c.Do(ctx, req)
	if err != nil {
		return TokenPayload{}, err
	}

	payload, err := decode[TokenPayload](resp)
	if err != nil {
		return TokenPayload{}, err
	}
	if payload.Token == "" {
		return TokenPayload{}, errors.New("token is empty")
	}
	if payload.RefreshToken == "" {
		payload.RefreshToken = resp.Cookie(s.cookie)
	}
	return payload, nil
}
