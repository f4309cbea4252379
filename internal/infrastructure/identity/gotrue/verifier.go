package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/askmynotes/backend/internal/core/domain"
)

// Verifier resolves bearer tokens against a GoTrue auth server
// (the Supabase auth API) via GET /auth/v1/user.
type Verifier struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewVerifier(baseURL, anonKey string, httpClient *http.Client) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Verifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: httpClient,
	}
}

func (v *Verifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "verify token", fmt.Errorf("empty bearer token"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth verify request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", domain.WrapError(domain.ErrUnauthorized, "verify token", fmt.Errorf("auth server status: %s", resp.Status))
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("auth verify status: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("decode auth user: %w", err)
	}
	if strings.TrimSpace(user.ID) == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "verify token", fmt.Errorf("auth user has no id"))
	}
	return user.ID, nil
}
