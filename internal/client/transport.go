// Package client implements the composing side of the journal: an
// authenticated HTTP transport and the working-set state machine that
// encodes line items before submitting them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

// TokenPair mirrors the credential payload issued by the auth endpoints.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// API is an authenticated HTTP client for the journal server. Requests carry
// the bearer access token; on a 401 or 403 the client renews the pair once
// via the refresh endpoint and retries. A failed renewal or a rejected retry
// surfaces as core.ErrSessionExpired.
type API struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	creds TokenPair
}

func NewAPI(baseURL string, creds TokenPair) *API {
	return &API{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
	}
}

// Login exchanges credentials for a token pair and stores it for later calls.
func (c *API) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", readMessage(resp.Body))
	}
	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	c.setCreds(pair)
	return nil
}

// FetchEntry returns the stored record for a slot, or core.ErrNotFound.
func (c *API) FetchEntry(ctx context.Context, dateText, account string) (core.StoredRecord, error) {
	q := url.Values{"date": {dateText}, "account": {account}}
	resp, err := c.send(ctx, http.MethodGet, "/journal/fetch?"+q.Encode(), nil)
	if err != nil {
		return core.StoredRecord{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var rec core.StoredRecord
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return core.StoredRecord{}, fmt.Errorf("decode fetch response: %w", err)
		}
		return rec, nil
	case http.StatusNotFound:
		return core.StoredRecord{}, core.ErrNotFound
	default:
		return core.StoredRecord{}, fmt.Errorf("fetch entry: %s", readMessage(resp.Body))
	}
}

// AppendEntry submits an already-encoded record for a slot.
func (c *API) AppendEntry(ctx context.Context, dateText, account, amount, notes string) error {
	payload := map[string]string{"date": dateText, "account": account, "amount": amount, "note": notes}
	resp, err := c.send(ctx, http.MethodPost, "/journal/append", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("append entry: %s", readMessage(resp.Body))
	}
	return nil
}

// Filter lists an account's entries, optionally restricted to a month.
func (c *API) Filter(ctx context.Context, month int, account string) ([]core.FilterRow, error) {
	q := url.Values{"account": {account}}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}
	resp, err := c.send(ctx, http.MethodGet, "/filter?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filter entries: %s", readMessage(resp.Body))
	}
	var body struct {
		Rows []core.FilterRow `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode filter response: %w", err)
	}
	return body.Rows, nil
}

// Accounts lists the selectable account names.
func (c *API) Accounts(ctx context.Context) ([]string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/filter", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list accounts: %s", readMessage(resp.Body))
	}
	var body struct {
		Accounts []string `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode accounts response: %w", err)
	}
	return body.Accounts, nil
}

// Suggestions fetches the autocomplete snapshot.
func (c *API) Suggestions(ctx context.Context) (core.Suggestions, error) {
	resp, err := c.send(ctx, http.MethodGet, "/journal/suggestions", nil)
	if err != nil {
		return core.Suggestions{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Suggestions{}, fmt.Errorf("fetch suggestions: %s", readMessage(resp.Body))
	}
	var s core.Suggestions
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return core.Suggestions{}, fmt.Errorf("decode suggestions: %w", err)
	}
	return s, nil
}

// send performs an authenticated request, renewing the token pair once when
// the server rejects the access token.
func (c *API) send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	resp.Body.Close()

	if err := c.refresh(ctx); err != nil {
		return nil, core.ErrSessionExpired
	}
	resp, err = c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, core.ErrSessionExpired
	}
	return resp, nil
}

func (c *API) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *API) refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.creds.RefreshToken
	c.mu.Unlock()

	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh tokens: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}
	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	c.setCreds(pair)
	return nil
}

func (c *API) setCreds(pair TokenPair) {
	c.mu.Lock()
	c.creds = pair
	c.mu.Unlock()
}

// Tokens returns the current token pair, rotated pairs included.
func (c *API) Tokens() TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds
}

func (c *API) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds.AccessToken
}

func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Message == "" {
		return "unexpected server response"
	}
	return body.Message
}
