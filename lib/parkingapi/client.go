// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parkingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/netutil"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/secret"
	"github.com/bureau-foundation/parkir/lib/session"
)

// DefaultTimeout bounds each request when ClientConfig.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Credentials is the credential persistence the client reads and
// invalidates. *session.Store satisfies it.
type Credentials interface {
	Token(ctx context.Context) (*secret.Buffer, error)
	HasToken(ctx context.Context) bool
	Save(ctx context.Context, token *secret.Buffer, profile *parking.Profile) error
	Clear(ctx context.Context) error
}

// Endpoint returns the API base URL (no trailing slash) for a request.
type Endpoint func(ctx context.Context) string

// StaticEndpoint returns an Endpoint that always yields baseURL.
func StaticEndpoint(baseURL string) Endpoint {
	trimmed := strings.TrimRight(baseURL, "/")
	return func(context.Context) string { return trimmed }
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Endpoint resolves the base URL per request. Required.
	Endpoint Endpoint

	// Sessions stores and invalidates the bearer credential. Required.
	Sessions Credentials

	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Ordering sorts VehicleTypes results. Zero means by identifier.
	Ordering parking.Ordering

	// UserAgent is sent on every request when non-empty.
	UserAgent string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the parking REST API.
type Client struct {
	endpoint   Endpoint
	sessions   Credentials
	httpClient *http.Client
	timeout    time.Duration
	ordering   parking.Ordering
	userAgent  string
	logger     *slog.Logger
}

// NewClient validates the configuration and creates a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Endpoint == nil {
		return nil, fmt.Errorf("parkingapi: Endpoint is required")
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("parkingapi: Sessions is required")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ordering := config.Ordering
	if ordering == "" {
		ordering = parking.OrderByID
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   config.Endpoint,
		sessions:   config.Sessions,
		httpClient: httpClient,
		timeout:    timeout,
		ordering:   ordering,
		userAgent:  config.UserAgent,
		logger:     logger,
	}, nil
}

// IsAuthenticated reports whether a credential is stored. It does not
// contact the server.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.sessions.HasToken(ctx)
}

// Login exchanges credentials for a bearer token and stores it with
// the returned profile. The password buffer is borrowed.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*parking.Profile, error) {
	if password == nil {
		return nil, failure.Invalid(failure.OpLogin, map[string]string{"password": "Password wajib diisi."})
	}
	credentials := parking.Credentials{Email: strings.TrimSpace(email), Password: password.String()}
	if problems := credentials.Validate(); problems != nil {
		return nil, failure.Invalid(failure.OpLogin, problems)
	}

	response, err := c.do(ctx, failure.OpLogin, http.MethodPost, "/login", nil, nil, credentials)
	if err != nil {
		return nil, err
	}
	if response.status == http.StatusUnauthorized {
		return nil, &failure.Error{Kind: failure.Auth, Op: failure.OpLogin, Message: response.body.Message}
	}
	if err := classifyStatus(failure.OpLogin, response); err != nil {
		return nil, err
	}

	var data loginData
	if !response.body.Success || json.Unmarshal(response.body.Data, &data) != nil || data.Token == "" {
		return nil, failure.Newf(failure.Server, failure.OpLogin, "login response has no token")
	}

	token, err := secret.NewFromString(data.Token)
	if err != nil {
		return nil, failure.New(failure.Internal, failure.OpLogin, err)
	}
	defer token.Close()

	profile := data.User
	if err := c.sessions.Save(ctx, token, &profile); err != nil {
		return nil, failure.New(failure.Internal, failure.OpLogin, fmt.Errorf("storing session: %w", err))
	}
	c.logger.Info("operator logged in", "user_id", profile.ID, "email", profile.Email)
	return &profile, nil
}

// Logout notifies the server when a credential is stored and always
// clears it locally. Failures are logged, never returned.
func (c *Client) Logout(ctx context.Context) {
	token, err := c.sessions.Token(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		c.logger.Warn("reading credential for logout failed", "error", err)
	default:
		response, requestErr := c.do(ctx, failure.OpLogout, http.MethodPost, "/logout", token, nil, nil)
		token.Close()
		if requestErr != nil {
			c.logger.Warn("server logout failed", "error", requestErr)
		} else if response.status >= 300 {
			c.logger.Warn("server logout rejected", "status", response.status)
		}
	}
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Error("clearing stored session failed", "error", err)
		return
	}
	c.logger.Info("operator logged out")
}

// VehicleTypes fetches the tariff catalog, ordered by the configured
// policy. Entries that fail validation are dropped with a warning.
func (c *Client) VehicleTypes(ctx context.Context) ([]parking.VehicleType, error) {
	query := url.Values{"order_by": {"id"}, "order_direction": {"asc"}}
	body, err := c.authenticated(ctx, failure.OpVehicleTypes, http.MethodGet, "/vehicle-types", query, nil)
	if err != nil {
		return nil, err
	}

	var types []parking.VehicleType
	if err := json.Unmarshal(body.Data, &types); err != nil {
		return nil, failure.New(failure.Server, failure.OpVehicleTypes, fmt.Errorf("decoding vehicle types: %w", err))
	}
	valid := types[:0]
	for _, vehicleType := range types {
		if err := vehicleType.Validate(); err != nil {
			c.logger.Warn("skipping invalid vehicle type", "error", err)
			continue
		}
		valid = append(valid, vehicleType)
	}
	c.ordering.Sort(valid)
	return valid, nil
}

// CreateTransaction submits a parking transaction. The request is
// validated locally first.
func (c *Client) CreateTransaction(ctx context.Context, transaction parking.ParkingTransaction) (*parking.TransactionRecord, error) {
	if problems := transaction.Validate(); problems != nil {
		return nil, failure.Invalid(failure.OpCreateTransaction, problems)
	}
	body, err := c.authenticated(ctx, failure.OpCreateTransaction, http.MethodPost, "/parking", nil, transaction)
	if err != nil {
		return nil, err
	}

	var record parking.TransactionRecord
	if len(body.Data) > 0 && string(body.Data) != "null" {
		if err := json.Unmarshal(body.Data, &record); err != nil {
			return nil, failure.New(failure.Server, failure.OpCreateTransaction, fmt.Errorf("decoding transaction: %w", err))
		}
	}
	c.logger.Info("parking transaction created",
		"transaction_id", record.ID.Int64,
		"vehicle_type_id", transaction.VehicleTypeID,
	)
	return &record, nil
}

// authenticated performs a bearer-authenticated call and maps every
// non-success outcome to a *failure.Error.
func (c *Client) authenticated(ctx context.Context, op, method, path string, query url.Values, requestBody any) (*envelope, error) {
	token, err := c.sessions.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			c.logger.Warn("reading stored credential failed", "error", err)
		}
		return nil, failure.New(failure.SessionExpired, op, err)
	}
	defer token.Close()

	response, err := c.do(ctx, op, method, path, token, query, requestBody)
	if err != nil {
		return nil, err
	}
	if response.status == http.StatusUnauthorized {
		if clearErr := c.sessions.Clear(ctx); clearErr != nil {
			c.logger.Error("clearing expired session failed", "error", clearErr)
		}
		c.logger.Warn("session expired", "op", op)
		return nil, failure.Newf(failure.SessionExpired, op, "server rejected credential")
	}
	if err := classifyStatus(op, response); err != nil {
		return nil, err
	}
	if !response.body.Success {
		return nil, &failure.Error{Kind: failure.Server, Op: op, Message: response.body.Message, Err: errors.New("response not successful")}
	}
	return &response.body, nil
}

type rawResponse struct {
	status int
	body   envelope
}

// do sends one request under the per-request timeout. Transport errors
// come back classified; HTTP error statuses come back as a response for
// the caller to classify.
func (c *Client) do(ctx context.Context, op, method, path string, token *secret.Buffer, query url.Values, requestBody any) (*rawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestURL := c.endpoint(ctx) + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader *bytes.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, failure.New(failure.Internal, op, fmt.Errorf("encoding request: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	var request *http.Request
	var err error
	if bodyReader != nil {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	} else {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, nil)
	}
	if err != nil {
		return nil, failure.New(failure.Validation, op, fmt.Errorf("building request for %s: %w", requestURL, err))
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	if token != nil {
		request.Header.Set("Authorization", "Bearer "+token.String())
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		kind := failure.Network
		if netutil.IsTimeout(err) {
			kind = failure.Timeout
		}
		c.logger.Warn("api request failed",
			"op", op, "method", method, "path", path,
			"request_id", requestID, "kind", kind.String(), "error", err)
		return nil, failure.New(kind, op, err)
	}
	defer response.Body.Close()

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		kind := failure.Network
		if netutil.IsTimeout(err) {
			kind = failure.Timeout
		}
		return nil, failure.New(kind, op, fmt.Errorf("reading response: %w", err))
	}

	c.logger.Debug("api request",
		"op", op, "method", method, "path", path, "status", response.StatusCode,
		"request_id", requestID, "duration", time.Since(started))

	result := &rawResponse{status: response.StatusCode}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &result.body); err != nil {
			if response.StatusCode >= 200 && response.StatusCode < 300 {
				return nil, failure.New(failure.Server, op, fmt.Errorf("decoding response: %w", err))
			}
			// Error statuses with HTML bodies still classify by status.
		}
	}
	return result, nil
}
