package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig

	// Limiter, when set, gates every attempt including retries.
	Limiter *rate.Limiter
}

// DefaultBackoff is the retry policy used by the bundled providers.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errNotFound      = errors.New("not found")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
	errLimiterWait   = errors.New("rate limit wait canceled")
)

// newCircuitBreaker builds a breaker that does not count client-side
// rejections (4xx other than 429) as upstream failures.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
	})
}

func isClientError(err error) bool {
	return errors.Is(err, errNotFound) || errors.Is(err, errUnexpected)
}

// statusError classifies a non-2xx upstream status. It returns nil for 2xx.
func statusError(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code == http.StatusNotFound:
		return errNotFound
	case code >= 500:
		return errServerError
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", errUnexpected, code)
	}
	return nil
}

// delay is the wait before retry n (0-based), capped at MaxInterval.
func (b BackoffConfig) delay(n int) time.Duration {
	d := b.InitialInterval * time.Duration(math.Pow(2, float64(n)))
	if b.MaxInterval > 0 && d > b.MaxInterval {
		return b.MaxInterval
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// attemptOnce sends one request through the limiter and the breaker.
func attemptOnce(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", errLimiterWait, err)
		}
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}

	out, err := cb.Execute(func() (interface{}, error) {
		resp, err := cfg.Client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if err := statusError(resp.StatusCode); err != nil {
			resp.Body.Close()
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}
	return out.(*http.Response), nil
}

// doRequestWithResilience executes the HTTP request with rate limiting, retries,
// exponential backoff, and a circuit breaker. Client errors and an open
// circuit are returned at once.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	for retry := 0; ; retry++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := attemptOnce(ctx, cfg, cb, buildRequest)
		switch {
		case err == nil:
			return resp, nil
		case errors.Is(err, errCircuitOpen), errors.Is(err, errLimiterWait), isClientError(err), ctx.Err() != nil:
			return nil, err
		case retry >= cfg.Backoff.MaxRetries:
			return nil, err
		}

		log.Printf("DEBUG: %s attempt %d failed: %v", cb.Name(), retry+1, err)
		if err := sleepContext(ctx, cfg.Backoff.delay(retry)); err != nil {
			return nil, err
		}
	}
}
