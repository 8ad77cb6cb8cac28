package kwil

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the remote database API used to submit and confirm
// transactions.
type Client interface {
	// Broadcast submits tx and returns its hash.
	Broadcast(ctx context.Context, tx *Transaction) ([]byte, error)
	// TxQuery returns the status of a submitted transaction. It usually
	// fails for a short while after Broadcast, until the transaction
	// propagates.
	TxQuery(ctx context.Context, hash []byte) (*TxQueryResponse, error)
	// Account returns the sender's account, used for its nonce.
	Account(ctx context.Context, identifier []byte) (*Account, error)
	// ChainInfo returns the remote network description.
	ChainInfo(ctx context.Context) (*ChainInfo, error)
}

// APIError is a non-2xx answer of the remote API.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kwil api returned status: %d", e.StatusCode)
	}
	return fmt.Sprintf("kwil api returned status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
}

// HTTPClient talks to the JSON gateway of a Kwil node.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		h.httpClient.Timeout = d
	}
}

// NewHTTPClient creates a client for provider, e.g. "http://localhost:8080".
func NewHTTPClient(provider string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		baseURL:    strings.TrimRight(provider, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Provider returns the base URL.
func (h *HTTPClient) Provider() string {
	return h.baseURL
}

func (h *HTTPClient) Broadcast(ctx context.Context, tx *Transaction) ([]byte, error) {
	var resp struct {
		TxHash []byte `json:"tx_hash"`
	}
	if err := h.do(ctx, http.MethodPost, "/api/v1/broadcast", map[string]any{"tx": tx}, &resp); err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}
	return resp.TxHash, nil
}

func (h *HTTPClient) TxQuery(ctx context.Context, hash []byte) (*TxQueryResponse, error) {
	var resp TxQueryResponse
	if err := h.do(ctx, http.MethodPost, "/api/v1/tx_query", map[string]any{"tx_hash": hash}, &resp); err != nil {
		return nil, fmt.Errorf("failed to query transaction %x: %w", hash, err)
	}
	return &resp, nil
}

func (h *HTTPClient) Account(ctx context.Context, identifier []byte) (*Account, error) {
	var resp struct {
		Account *Account `json:"account"`
	}
	path := "/api/v1/accounts/" + hex.EncodeToString(identifier)
	if err := h.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if resp.Account == nil {
		return &Account{Identifier: identifier, Balance: "0"}, nil
	}
	return resp.Account, nil
}

func (h *HTTPClient) ChainInfo(ctx context.Context) (*ChainInfo, error) {
	var resp ChainInfo
	if err := h.do(ctx, http.MethodGet, "/api/v1/chain_info", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get chain info: %w", err)
	}
	return &resp, nil
}

func (h *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 answer of the remote API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
