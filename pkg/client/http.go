package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var _ API = (*HTTPClient)(nil)

// HTTPClient talks to a running StudentHub server over HTTP/JSON
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the API rooted at baseURL
// (e.g. "http://localhost:8080/api")
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// do sends one JSON request and decodes the response into out (when non-nil).
// Non-2xx responses are returned as *APIError with the server's message.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "unexpected error"}
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Register creates a student account and logs it in
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	resp := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Login authenticates with email and password
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	resp := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListStudents retrieves one directory page (admin only)
func (c *HTTPClient) ListStudents(ctx context.Context, token string, opts ListOptions) (*StudentList, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.StatusFilter != "" {
		query.Set("statusFilter", opts.StatusFilter)
	}

	path := "/students"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp := &StudentList{}
	if err := c.do(ctx, http.MethodGet, path, token, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetStats retrieves the directory aggregate counts (admin only)
func (c *HTTPClient) GetStats(ctx context.Context, token string) (*Stats, error) {
	resp := &Stats{}
	if err := c.do(ctx, http.MethodGet, "/students/stats", token, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateStudent adds a student record (admin only)
func (c *HTTPClient) CreateStudent(ctx context.Context, token string, req *CreateStudentRequest) (*CreatedStudent, error) {
	resp := &CreatedStudent{}
	if err := c.do(ctx, http.MethodPost, "/students", token, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateStudent partially updates a student record (admin only)
func (c *HTTPClient) UpdateStudent(ctx context.Context, token, id string, req *UpdateStudentRequest) (*UserProfile, error) {
	resp := &UserProfile{}
	if err := c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(id), token, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteStudent permanently removes a student record (admin only)
func (c *HTTPClient) DeleteStudent(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/students/"+url.PathEscape(id), token, nil, nil)
}

// ChangeUserRole sets a user's role (admin only)
func (c *HTTPClient) ChangeUserRole(ctx context.Context, token, id, role string) (*UserProfile, error) {
	body := map[string]string{"role": role}
	resp := &UserProfile{}
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", token, body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetMyProfile retrieves the caller's own profile
func (c *HTTPClient) GetMyProfile(ctx context.Context, token string) (*UserProfile, error) {
	resp := &UserProfile{}
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateMyProfile partially updates the caller's own profile
func (c *HTTPClient) UpdateMyProfile(ctx context.Context, token string, req *UpdateProfileRequest) (*UserProfile, error) {
	resp := &UserProfile{}
	if err := c.do(ctx, http.MethodPut, "/users/me", token, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
