package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/resilience"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request id for server-side correlation
const RequestIDHeader = "X-Request-ID"

// ClientConfig configures a Client
type ClientConfig struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is requests per second; zero or less is unlimited
	RateLimit float64
	UserAgent string
	// Breaker overrides the default circuit breaker policy
	Breaker *resilience.Policy
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// Client is the HTTP client shared by Source and Downloader
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker

	mu      sync.RWMutex
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewClient creates a client with retries, breaker and limiter
func NewClient(cfg ClientConfig) *Client {
	logger := logging.OrNop(cfg.Logger).Named("remote")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	if cfg.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = cfg.RetryWaitMax
	}
	retryClient.Logger = retryLogger{logger.Sugar()}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "assetpack/1.0"
	}

	// retries are owned by the retryablehttp transport
	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)

	policy := resilience.Policy{
		Window:   60 * time.Second,
		Cooldown: 30 * time.Second,
		OnTransition: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	}
	if cfg.Breaker != nil {
		policy = *cfg.Breaker
	}

	c := &Client{
		Resty:   restyClient,
		Limiter: rate.NewLimiter(rate.Inf, 0),
		Breaker: resilience.New("update-server", policy),
		logger:  logger,
		metrics: cfg.Metrics,
	}
	c.SetRateLimit(cfg.RateLimit)
	return c
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// request creates a rate limited request carrying a fresh request id
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	c.mu.RLock()
	limiter := c.Limiter
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}
	return c.Resty.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString()), nil
}

// Get fetches url and returns the body, limited to maxBytes
func (c *Client) Get(ctx context.Context, resource, url string, maxBytes int64) ([]byte, error) {
	var body []byte
	err := c.Stream(ctx, resource, url, func(r io.Reader) error {
		data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
		if err != nil {
			return err
		}
		if int64(len(data)) > maxBytes {
			return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
		}
		body = data
		return nil
	})
	return body, err
}

// Stream fetches url and hands the response body to consume. The body is
// closed when consume returns.
func (c *Client) Stream(ctx context.Context, resource, url string, consume func(r io.Reader) error) error {
	start := time.Now()
	err := c.Breaker.Do(func() error {
		req, err := c.request(ctx)
		if err != nil {
			return err
		}

		resp, err := req.SetDoNotParseResponse(true).Get(url)
		if err != nil {
			return err
		}
		body := resp.RawBody()
		defer body.Close()

		if resp.IsError() {
			return &FetchError{Resource: resource, URL: url, StatusCode: resp.StatusCode(), Err: ErrBadStatus}
		}
		return consume(body)
	})

	c.metrics.RecordRemote(resource, time.Since(start), err)
	if err != nil {
		c.logger.Debug("Remote fetch failed",
			zap.String("resource", resource),
			zap.String("url", url),
			zap.Error(err))
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return err
		}
		return &FetchError{Resource: resource, URL: url, Err: err}
	}
	return nil
}

// retryLogger adapts zap to retryablehttp.LeveledLogger
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
