// Package rest implements the backend client port over HTTP. All request and
// response bodies use the backend's snake_case JSON shapes.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"corpsuite/internal/session/domain/client"
	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/shared/logger"

	"github.com/valyala/fasthttp"
)

const defaultTimeout = 15 * time.Second

// Client talks to the corpsuite backend over HTTP.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger overrides the client logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{},
		timeout: defaultTimeout,
		log:     logger.NewLogger().WithComponent("backend-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ client.BackendClient = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	SubscriptionPlan string `json:"subscription_plan"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
}

type credentialsResponse struct {
	AccessToken         string `json:"access_token"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	UserID              string `json:"user_id"`
	SubscriptionPlan    string `json:"subscription_plan"`
	SubscriptionEndDate string `json:"subscription_end_date"`
}

type oauthCallbackRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
	State    string `json:"state"`
}

type oauthCallbackResponse struct {
	AccessToken string           `json:"access_token"`
	UserData    model.WireFields `json:"user_data"`
}

// Me resolves the current user for the given bearer token.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	var fields model.WireFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("malformed who-am-I response: %w", err)
	}
	return model.UserFromWire(fields), nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*client.Credentials, error) {
	body, err := c.do(ctx, fasthttp.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return decodeCredentials(body)
}

// Register creates an account. confirm_password is always duplicated from the
// password; the form layer validated equality before this call.
func (c *Client) Register(ctx context.Context, req client.RegisterRequest) (*client.Credentials, error) {
	body, err := c.do(ctx, fasthttp.MethodPost, "/auth/register", "", registerRequest{
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.Password,
		SubscriptionPlan: req.SubscriptionPlan,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		CompanyName:      req.CompanyName,
	})
	if err != nil {
		return nil, err
	}
	return decodeCredentials(body)
}

// UpdateProfile sends partial profile fields and returns the raw response
// object for the caller to merge.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch model.ProfilePatch) (model.WireFields, error) {
	body, err := c.do(ctx, fasthttp.MethodPut, "/auth/profile", token, patch)
	if err != nil {
		return nil, err
	}

	var fields model.WireFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("malformed profile response: %w", err)
	}
	return fields, nil
}

// OAuthCallback exchanges an authorization code for credentials.
func (c *Client) OAuthCallback(ctx context.Context, provider, code, state string) (*client.OAuthCredentials, error) {
	body, err := c.do(ctx, fasthttp.MethodPost, "/auth/oauth/callback", "", oauthCallbackRequest{
		Provider: provider,
		Code:     code,
		State:    state,
	})
	if err != nil {
		return nil, err
	}

	var resp oauthCallbackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed oauth response: %w", err)
	}

	creds := &client.OAuthCredentials{AccessToken: resp.AccessToken}
	if resp.UserData != nil {
		creds.User = model.UserFromWire(resp.UserData)
	}
	return creds, nil
}

// do performs one request and returns the response body for 2xx statuses.
// Non-2xx statuses become an *client.APIError carrying the server detail.
func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.SetBody(body)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		c.log.Debugf("Request %s %s failed: %v", method, path, err)
		return nil, fmt.Errorf("backend request failed: %w", err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	if status < 200 || status > 299 {
		return nil, &client.APIError{StatusCode: status, Detail: extractDetail(body)}
	}
	return body, nil
}

// extractDetail pulls the human-readable message out of an error body. The
// backend uses {"detail": ...}; {"error": ...} is accepted for tolerance.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Detail != "" {
		return envelope.Detail
	}
	return envelope.Error
}

func decodeCredentials(body []byte) (*client.Credentials, error) {
	var resp credentialsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed credentials response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("credentials response missing access_token")
	}
	return &client.Credentials{
		AccessToken:         resp.AccessToken,
		UserID:              resp.UserID,
		Email:               resp.Email,
		Role:                resp.Role,
		SubscriptionPlan:    resp.SubscriptionPlan,
		SubscriptionEndDate: resp.SubscriptionEndDate,
	}, nil
}
