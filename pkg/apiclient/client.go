// Package apiclient is the client half of the session protocol: it
// attaches credentials to outgoing requests and transparently recovers
// from access-token expiry, making sure N concurrent 401s collapse into a
// single refresh call.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired means the refresh token is gone or was rejected; the
// local session has been cleared and the user must log in again.
var ErrSessionExpired = errors.New("session expired, login required")

// Transport is an http.RoundTripper that bearer-authenticates requests
// against a TokenStore. On a 401 it refreshes the access token — one
// network call no matter how many requests hit the 401 at once — and
// retries the original request exactly once. A 401 on the retry is
// returned to the caller as-is; there is no retry loop.
type Transport struct {
	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	Store *TokenStore

	// RefreshURL is the absolute URL of the token refresh endpoint.
	RefreshURL string

	// OnSessionExpired is invoked after the store is cleared, e.g. to
	// navigate the UI to the login screen. May be nil.
	OnSessionExpired func()

	group singleflight.Group
}

// NewHTTPClient wires a Transport into a ready-to-use client for the
// given API base URL.
func NewHTTPClient(baseURL string, store *TokenStore, onSessionExpired func()) *http.Client {
	return &http.Client{
		Transport: &Transport{
			Store:            store,
			RefreshURL:       strings.TrimRight(baseURL, "/") + "/api/v1/auth/refresh",
			OnSessionExpired: onSessionExpired,
		},
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	access, _ := t.Store.Tokens()

	attempt, err := cloneRequest(req, access)
	if err != nil {
		return nil, err
	}
	resp, err := t.base().RoundTrip(attempt)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A consumed, non-replayable body cannot be retried; hand the 401
	// back to the caller.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	newAccess, err := t.refresh(access)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry, err := cloneRequest(req, newAccess)
	if err != nil {
		return nil, err
	}
	return t.base().RoundTrip(retry)
}

// refresh obtains a usable access token. Concurrent callers share one
// flight; callers arriving after a completed flight skip the network
// round trip when the stored token already changed under them.
func (t *Transport) refresh(stale string) (string, error) {
	v, err, _ := t.group.Do("refresh", func() (interface{}, error) {
		current, refreshToken := t.Store.Tokens()
		if current != "" && current != stale {
			return current, nil
		}
		if refreshToken == "" {
			t.expireSession()
			return nil, ErrSessionExpired
		}

		token, err := t.callRefreshEndpoint(refreshToken)
		if err != nil {
			t.expireSession()
			return nil, err
		}
		if err := t.Store.SetAccessToken(token); err != nil {
			return nil, err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *Transport) callRefreshEndpoint(refreshToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", err
	}

	// Deliberately not tied to any one caller's context: the result is
	// shared by every request waiting on this flight.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, t.RefreshURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: t.base()}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh rejected with status %d: %w", resp.StatusCode, ErrSessionExpired)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("refresh response malformed: %w", err)
	}
	if !payload.Success || payload.Data.AccessToken == "" {
		return "", ErrSessionExpired
	}
	return payload.Data.AccessToken, nil
}

func (t *Transport) expireSession() {
	_ = t.Store.Clear()
	if t.OnSessionExpired != nil {
		t.OnSessionExpired()
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// cloneRequest copies the request with a fresh replayable body and the
// Authorization header set; RoundTrip must not mutate the caller's request.
func cloneRequest(req *http.Request, token string) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r, nil
}
