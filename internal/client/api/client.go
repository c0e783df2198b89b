package api

//go:generate moq -out client_mock.go . ClientAPI

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/objsync/pkg/api"
)

// ClientAPI описывает операции сервера, нужные sync сервису
type ClientAPI interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
	RevokeToken(ctx context.Context, token string) error
	PutObjects(ctx context.Context, token string, objects []api.ObjectInput) (int64, error)
	GetObjects(ctx context.Context, token string, since int64) ([]api.Object, error)
	GetObject(ctx context.Context, token, id string) (*api.Object, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Authorization не копируется при редиректе на другой хост
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IssueToken обменивает username и пароль на bearer token
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	var resp api.TokenResponse
	authHeader := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))

	if err := c.doRequest(ctx, http.MethodPut, "/user/token", authHeader, nil, &resp); err != nil {
		return "", fmt.Errorf("issue token request failed: %w", err)
	}
	return resp.Token, nil
}

// RevokeToken отзывает token, аутентифицируясь им же
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	req := api.RevokeTokenRequest{Token: token}
	if err := c.doRequest(ctx, http.MethodDelete, "/user/token", bearer(token), req, nil); err != nil {
		return fmt.Errorf("revoke token request failed: %w", err)
	}
	return nil
}

// PutObjects отправляет батч и возвращает назначенный сервером modifiedAt
func (c *Client) PutObjects(ctx context.Context, token string, objects []api.ObjectInput) (int64, error) {
	var resp api.PutObjectsResponse
	req := api.PutObjectsRequest{Objects: objects}

	if err := c.doRequest(ctx, http.MethodPut, "/objects", bearer(token), req, &resp); err != nil {
		return 0, fmt.Errorf("put objects request failed: %w", err)
	}
	return resp.ModifiedAt, nil
}

// GetObjects получает объекты с modifiedAt > since
func (c *Client) GetObjects(ctx context.Context, token string, since int64) ([]api.Object, error) {
	var resp api.ObjectsResponse
	path := "/objects?since=" + strconv.FormatInt(since, 10)

	if err := c.doRequest(ctx, http.MethodGet, path, bearer(token), nil, &resp); err != nil {
		return nil, fmt.Errorf("get objects request failed: %w", err)
	}
	return resp.Objects, nil
}

// GetObject получает один объект
func (c *Client) GetObject(ctx context.Context, token, id string) (*api.Object, error) {
	var resp api.Object
	if err := c.doRequest(ctx, http.MethodGet, "/objects/"+url.PathEscape(id), bearer(token), nil, &resp); err != nil {
		return nil, fmt.Errorf("get object request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

func bearer(token string) string {
	return "Bearer " + token
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, authHeader string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
		}
		return statusErr
	}

	// 202 на DELETE приходит без тела
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
