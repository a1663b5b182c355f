// Package api is the REST transport for the booking backend. It returns raw
// response bodies; decoding is left to the normalizer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const (
	DefaultTimeout = 15 * time.Second

	RequestIDHeader = "X-Request-ID"

	maxBodySize = 8 << 20
)

// API defines the backend operations used by the stores
type API interface {
	SearchFlights(ctx context.Context, params SearchParams) ([]byte, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) ([]byte, error)
	ListBookings(ctx context.Context, userID, paginationToken string) ([]byte, error)
	GetLoyalty(ctx context.Context, userID string) ([]byte, error)
	AddLoyaltyPoints(ctx context.Context, userID string, pointsToAdd int) ([]byte, error)
}

// RequestEditorFn mutates a request before it is sent
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRequestEditor adds an editor applied to every request.
func WithRequestEditor(fn RequestEditorFn) Option {
	return func(c *Client) {
		c.editors = append(c.editors, fn)
	}
}

// WithBearerToken authenticates every request with the given access token.
func WithBearerToken(token string) Option {
	return WithRequestEditor(BearerToken(func() string { return token }))
}

// BearerToken returns an editor that sets the Authorization header from source.
// Nothing is set while source returns an empty token.
func BearerToken(source func() string) RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		if token := source(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// Client talks to the booking REST backend
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	editors    []RequestEditorFn
}

// NewClient creates a Client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchFlights calls GET /search. Empty params return the unfiltered catalog.
func (c *Client) SearchFlights(ctx context.Context, params SearchParams) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/search", params.values(), nil)
}

// CreateBooking calls POST /booking.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/booking", nil, req)
}

// ListBookings calls GET /bookings for one user, continuing from paginationToken when set.
func (c *Client) ListBookings(ctx context.Context, userID, paginationToken string) ([]byte, error) {
	q := url.Values{"userId": {userID}}
	if paginationToken != "" {
		q.Set("paginationToken", paginationToken)
	}
	return c.do(ctx, http.MethodGet, "/bookings", q, nil)
}

// GetLoyalty calls GET /loyalty.
func (c *Client) GetLoyalty(ctx context.Context, userID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/loyalty", url.Values{"userId": {userID}}, nil)
}

// AddLoyaltyPoints calls POST /loyalty.
func (c *Client) AddLoyaltyPoints(ctx context.Context, userID string, pointsToAdd int) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/loyalty", url.Values{"userId": {userID}}, AddPointsRequest{PointsToAdd: pointsToAdd})
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return nil, fmt.Errorf("failed to edit %s %s request: %w", method, path, err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &models.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.TransportError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
