package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/tyler180/fpl-championship-analysis/internal/logging"
)

const defaultUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// StatusError is a non-retryable HTTP response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d for %s", e.Status, e.URL)
}

// Options tune one Client. Zero values take the defaults noted per field.
type Options struct {
	Name        string        // breaker name, default "http"
	UserAgent   string        // default desktop Chrome UA
	Timeout     time.Duration // default 30s
	Delay       time.Duration // polite sleep after every request
	MaxAttempts int           // default 4
	RetryBase   time.Duration // default 400ms
	RetryMax    time.Duration // default 6s
	Cooldown    time.Duration // 429 without Retry-After, default 7s
}

// Client is a polite HTTP getter: sequential, delayed, retried and guarded by
// a circuit breaker so a dead host fails fast for the remaining seasons.
type Client struct {
	http    *http.Client
	opts    Options
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Entry
	sleep   func(context.Context, time.Duration) error
}

func New(opts Options) *Client {
	if opts.Name == "" {
		opts.Name = "http"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUA
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 4
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 400 * time.Millisecond
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 6 * time.Second
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 7 * time.Second
	}
	log := logging.WithComponent("fetch").WithField("client", opts.Name)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// A 404 for one season says nothing about the host.
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.Status < 500)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		breaker: cb,
		log:     log,
		sleep:   sleepCtx,
	}
}

// GetText fetches url as a string.
func (c *Client) GetText(ctx context.Context, url, referer string) (string, error) {
	b, err := c.GetBytes(ctx, url, referer)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetBytes fetches url, retrying 429/5xx, then sleeps the polite delay.
func (c *Client) GetBytes(ctx context.Context, url, referer string) ([]byte, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, url, referer)
	})
	if c.opts.Delay > 0 {
		_ = c.sleep(ctx, c.opts.Delay)
	}
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) getWithRetry(ctx context.Context, url, referer string) ([]byte, error) {
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil || attempt == c.opts.MaxAttempts-1 {
				return nil, err
			}
			c.log.WithError(err).WithField("attempt", attempt+1).Debug("request failed; retrying")
			if err := c.sleep(ctx, backoff(attempt, c.opts.RetryBase, c.opts.RetryMax)); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				if attempt == c.opts.MaxAttempts-1 {
					return nil, readErr
				}
				if err := c.sleep(ctx, backoff(attempt, c.opts.RetryBase, c.opts.RetryMax)); err != nil {
					return nil, err
				}
				continue
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := parseRetryAfter(resp.Header.Get("Retry-After"))
			if wait == 0 {
				wait = c.opts.Cooldown
			}
			c.log.WithFields(logrus.Fields{"url": url, "wait": wait.String()}).Info("rate limited")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}

		case resp.StatusCode >= 500 && resp.StatusCode <= 599:
			c.log.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode, "attempt": attempt + 1}).Debug("server error; retrying")
			if err := c.sleep(ctx, backoff(attempt, c.opts.RetryBase, c.opts.RetryMax)); err != nil {
				return nil, err
			}

		default:
			return nil, &StatusError{URL: url, Status: resp.StatusCode}
		}
	}
	return nil, fmt.Errorf("exhausted retries for %s", url)
}

func parseRetryAfter(h string) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// exponential + jitter, capped
func backoff(attempt int, base, max time.Duration) time.Duration {
	d := base * time.Duration(1<<attempt)
	j := time.Duration(rand.Intn(250)) * time.Millisecond
	if d+j > max {
		return max
	}
	return d + j
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
