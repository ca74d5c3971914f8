// Package client типизированный HTTP-клиент API участников.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/req"
)

// DefaultBaseURL адрес сервера по умолчанию
const DefaultBaseURL = "http://localhost:5000"

// APIError ответ сервера с кодом не 2xx
type APIError struct {
	StatusCode int
	Message    string
	Details    any
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound сообщает, что сервер ответил 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ReminderResult ответ на запуск напоминаний
type ReminderResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Sent    int    `json:"sent"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Client клиент API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает клиент
type Option func(*Client)

// WithHTTPClient подменяет http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New создает клиент для сервера по baseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListMembers GET /api/members
func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return call[[]domain.Member](ctx, c, http.MethodGet, "/api/members", nil)
}

// GetMember GET /api/members/:id
func (c *Client) GetMember(ctx context.Context, id string) (domain.Member, error) {
	return call[domain.Member](ctx, c, http.MethodGet, memberPath(id), nil)
}

// CreateMember POST /api/members
func (c *Client) CreateMember(ctx context.Context, req domain.MemberRequest) (domain.Member, error) {
	return call[domain.Member](ctx, c, http.MethodPost, "/api/members", req)
}

// UpdateMember PUT /api/members/:id
func (c *Client) UpdateMember(ctx context.Context, id string, req domain.MemberRequest) (domain.Member, error) {
	return call[domain.Member](ctx, c, http.MethodPut, memberPath(id), req)
}

// UpdatePayment PUT /api/members/:id/payment
func (c *Client) UpdatePayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Member, error) {
	return call[domain.Member](ctx, c, http.MethodPut, memberPath(id)+"/payment", req)
}

// DeleteMember DELETE /api/members/:id
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, memberPath(id), nil)
	return err
}

// SendReminders POST /send-reminders
func (c *Client) SendReminders(ctx context.Context) (ReminderResult, error) {
	return call[ReminderResult](ctx, c, http.MethodPost, "/send-reminders", nil)
}

func memberPath(id string) string {
	return "/api/members/" + url.PathEscape(id)
}

// call выполняет запрос и декодирует тело успешного ответа в T
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		var zero T
		return zero, err
	}

	out, err := req.Decode[T](bytes.NewReader(data))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// send возвращает тело ответа 2xx; остальные коды превращаются в *APIError
func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if body, err := req.Decode[errorBody](bytes.NewReader(data)); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
		return apiErr
	}
	apiErr.Message = http.StatusText(status)
	return apiErr
}
