package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anyproto/remo-tui/internal/source"
	"github.com/anyproto/remo-tui/pkg/model"
)

const (
	// DefaultBaseURL is the Nature Remo cloud API endpoint
	DefaultBaseURL = "https://api.nature.global"

	// TokenEnvVar names the environment variable holding the bearer token
	TokenEnvVar = "NATURE_REMO_CLOUD_API_TOKEN"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Nature Remo cloud API
type Client struct {
	baseURL *url.URL
	token   string
	client  *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API endpoint (tests, proxies)
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(strings.TrimRight(raw, "/")); err == nil {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a client. An empty token yields an unauthenticated client
// whose requests carry no Authorization header.
func New(token string, opts ...Option) *Client {
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL: base,
		token:   token,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of this source
func (c *Client) Name() string {
	return "cloud"
}

// FetchAppliances implements source.Source
func (c *Client) FetchAppliances(ctx context.Context) ([]model.Appliance, error) {
	return c.GetAppliances(ctx)
}

// GetAppliances lists the appliances registered to the account
func (c *Client) GetAppliances(ctx context.Context) ([]model.Appliance, error) {
	var apps []model.Appliance
	if err := c.get(ctx, "/1/appliances", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetUser returns the owner of the token
func (c *Client) GetUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, "/1/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetDevices lists Remo devices with their newest sensor events
func (c *Client) GetDevices(ctx context.Context) ([]model.DeviceWithEvents, error) {
	var devices []model.DeviceWithEvents
	if err := c.get(ctx, "/1/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetSensorValue returns the newest readings of the first device
func (c *Client) GetSensorValue(ctx context.Context) (model.SensorValue, error) {
	devices, err := c.GetDevices(ctx)
	if err != nil {
		return model.SensorValue{}, err
	}
	if len(devices) == 0 {
		return model.SensorValue{}, fmt.Errorf("no devices registered")
	}
	return devices[0].Sensor(), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	u := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Kind: KindConnectivity, Path: path, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return &APIError{Kind: KindAuth, Path: path, StatusCode: resp.StatusCode}
	default:
		return &APIError{Kind: KindStatus, Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindDecode, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

var _ source.Source = (*Client)(nil)
