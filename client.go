package sheetkit

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"

	"github.com/reoring/sheetkit/schema"
)

// Connection defaults mirror the hosted service.
const (
	DefaultBaseURL  = "https://www.appsheet.com"
	DefaultLocale   = "en-GB"
	DefaultTimezone = "UTC"
)

// Default retry policy for rate-limited calls.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// Credentials identify one remote application.
type Credentials struct {
	AppID     string
	AccessKey string
}

// Validate checks that both parts are present.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AppID, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
	)
}

// Doer is the injected HTTP capability; *http.Client satisfies it. The client
// never dials on its own terms beyond what the Doer does, so cancellation and
// transport policy belong to the caller.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client holds credentials and connection configuration and hands out table
// handles. It is immutable after construction and safe for concurrent use.
type Client struct {
	creds        Credentials
	baseURL      string
	locale       string
	timezone     string
	userSettings map[string]string
	doer         Doer
	log          hclog.Logger
}

// ClientOption adjusts connection-level configuration.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint, e.g. a test server.
func WithBaseURL(u string) ClientOption { return func(c *Client) { c.baseURL = u } }

// WithLocale sets the locale sent with every call ("en-US" or "en-GB").
func WithLocale(locale string) ClientOption { return func(c *Client) { c.locale = locale } }

// WithTimezone sets the connection-level timezone, used both as a call
// property and for date parsing. Tables may override it.
func WithTimezone(tz string) ClientOption { return func(c *Client) { c.timezone = tz } }

// WithUserSettings attaches user settings forwarded in the properties bag of
// every call.
func WithUserSettings(settings map[string]string) ClientOption {
	return func(c *Client) { c.userSettings = settings }
}

// WithHTTPClient injects the HTTP capability. Defaults to http.DefaultClient.
func WithHTTPClient(d Doer) ClientOption { return func(c *Client) { c.doer = d } }

// WithLogger attaches a logger; dispatch and retry events are logged at
// debug level. Defaults to a null logger.
func WithLogger(log hclog.Logger) ClientOption { return func(c *Client) { c.log = log } }

// NewClient validates credentials and connection configuration and returns a
// client handle.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	c := &Client{
		creds:    creds,
		baseURL:  DefaultBaseURL,
		locale:   DefaultLocale,
		timezone: DefaultTimezone,
		doer:     http.DefaultClient,
		log:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Validate(c.baseURL, validation.Required, is.URL); err != nil {
		return nil, err
	}
	if err := validation.Validate(c.locale, validation.In("en-US", "en-GB")); err != nil {
		return nil, err
	}
	return c, nil
}

// Table binds a descriptor set to a remote table and returns the handle the
// record operations live on. The descriptor set is validated here so that
// structural mistakes surface immediately instead of as silently empty
// conversions.
func (c *Client) Table(name string, fields schema.Fields, opts ...TableOption) (*Table, error) {
	if err := validation.Validate(name, validation.Required.Error("table name is required")); err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return newTable(c, name, fields, opts)
}
