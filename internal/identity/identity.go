// Package identity consumes the authoritative identity backend. Binding
// authorization decisions always go through this client; the signed role
// cookie only ever short-circuits UX routing.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/arman-d/DermaCareBack/internal/models"
)

type Backend interface {
	// CurrentUser resolves the session token to the signed-in user.
	CurrentUser(ctx context.Context, sessionToken string) (*models.User, error)
	// GetProfile fetches a user by id.
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

type HTTPBackend struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewHTTPBackend(baseURL, serviceKey string) *HTTPBackend {
	return &HTTPBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: http.DefaultClient,
	}
}

func (b *HTTPBackend) CurrentUser(ctx context.Context, sessionToken string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build current user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	req.Header.Set("apikey", b.serviceKey)

	return b.decodeUser(req)
}

func (b *HTTPBackend) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%d", b.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.serviceKey)
	req.Header.Set("apikey", b.serviceKey)

	return b.decodeUser(req)
}

func (b *HTTPBackend) decodeUser(req *http.Request) (*models.User, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity backend returned status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	return &user, nil
}
