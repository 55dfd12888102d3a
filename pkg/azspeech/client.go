package azspeech

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTranslatorEndpoint is the global Translator API endpoint.
	DefaultTranslatorEndpoint = "https://api.cognitive.microsofttranslator.com"

	// DefaultTimeout is the default timeout of a single request attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retries after a transient
	// failure.
	DefaultMaxRetries = 1

	// DefaultBackoff is the delay before the first retry. Later retries wait
	// proportionally longer.
	DefaultBackoff = 500 * time.Millisecond
)

// Client is the Azure Speech REST API client.
type Client struct {
	// Verification provides text-dependent speaker verification operations.
	Verification *VerificationService

	// Translator provides text translation operations.
	Translator *TranslatorService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	key                string
	region             string
	endpoint           string
	translatorEndpoint string
	httpClient         *http.Client
	timeout            time.Duration
	maxRetries         int
	backoff            time.Duration
	logger             *slog.Logger
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithRegion sets the region of the speech resource (e.g., "westus"). The
// regional endpoint is derived from it unless WithEndpoint is given.
func WithRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = strings.ToLower(strings.TrimSpace(region))
	}
}

// WithEndpoint overrides the regional cognitive services endpoint.
func WithEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.endpoint = url
	}
}

// WithTranslatorEndpoint overrides the Translator API endpoint.
func WithTranslatorEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.translatorEndpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of each request attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithBackoff sets the delay before the first retry.
func WithBackoff(d time.Duration) Option {
	return func(c *clientConfig) {
		c.backoff = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// RegionalEndpoint returns the cognitive services endpoint of region.
func RegionalEndpoint(region string) string {
	return "https://" + region + ".api.cognitive.microsoft.com"
}

// NewClient creates a new Azure Speech REST API client.
//
// The key is the subscription key of a Speech resource.
//
// Example:
//
//	client := azspeech.NewClient("your-key", azspeech.WithRegion("westus"))
//	profile, err := client.Verification.CreateProfile(ctx, "en-US")
func NewClient(key string, opts ...Option) *Client {
	cfg := &clientConfig{
		key:                key,
		translatorEndpoint: DefaultTranslatorEndpoint,
		timeout:            DefaultTimeout,
		maxRetries:         DefaultMaxRetries,
		backoff:            DefaultBackoff,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.endpoint == "" && cfg.region != "" {
		cfg.endpoint = RegionalEndpoint(cfg.region)
	}
	cfg.endpoint = strings.TrimRight(cfg.endpoint, "/")
	cfg.translatorEndpoint = strings.TrimRight(cfg.translatorEndpoint, "/")

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}

	c.Verification = newVerificationService(c)
	c.Translator = newTranslatorService(c)

	return c
}

// Region returns the configured region.
func (c *Client) Region() string {
	return c.config.region
}

// Endpoint returns the cognitive services endpoint requests are sent to.
func (c *Client) Endpoint() string {
	return c.config.endpoint
}
