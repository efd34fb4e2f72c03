package googleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// Token is a bearer access token and its expiry.
type Token struct {
	AccessToken string
	Expiry      time.Time
}

// Valid reports whether the token is usable at the given instant, with a
// one-minute safety margin against clock skew and in-flight expiry.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && !t.Expiry.IsZero() && now.Add(time.Minute).Before(t.Expiry)
}

// TokenSource exchanges refresh tokens for access tokens against the Google
// OAuth endpoint.
type TokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	client       *http.Client
	now          func() time.Time
}

// NewTokenSource creates a token source for the given OAuth client.
func NewTokenSource(clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     googleTokenURL,
		client:       newHTTPClient(),
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Refresh exchanges a refresh token for a fresh access token.
func (ts *TokenSource) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	if refreshToken == "" {
		return Token{}, fmt.Errorf("no refresh token")
	}

	form := url.Values{
		"client_id":     {ts.clientID},
		"client_secret": {ts.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("token request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return Token{}, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("token refresh failed (%d): %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Token{}, fmt.Errorf("token response contained no access token")
	}

	return Token{
		AccessToken: tr.AccessToken,
		Expiry:      ts.now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
