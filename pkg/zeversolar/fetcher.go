package zeversolar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	REQUEST_TIMEOUT = 5 * time.Second
)

// Fetcher owns the HTTP access to one inverter and the snapshot read from it.
type Fetcher struct {
	endpoint Endpoint
	client   *http.Client
	throttle *Throttle
	clock    Clock
	snapshot atomic.Pointer[Snapshot]
	logger   *zap.Logger
}

type FetcherOption func(*Fetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithThrottle(throttle *Throttle) FetcherOption {
	return func(f *Fetcher) {
		f.throttle = throttle
	}
}

func WithClock(clock Clock) FetcherOption {
	return func(f *Fetcher) {
		f.clock = clock
	}
}

func WithLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client = &http.Client{Timeout: timeout}
	}
}

func NewFetcher(endpoint Endpoint, opts ...FetcherOption) (*Fetcher, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}
	f := &Fetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: REQUEST_TIMEOUT},
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.throttle == nil {
		f.throttle = NewThrottle(MIN_TIME_BETWEEN_UPDATES, f.clock)
	}
	f.logger = f.logger.With(zap.String("inverter", endpoint.String()))
	return f, nil
}

func (f *Fetcher) Endpoint() Endpoint {
	return f.endpoint
}

// Snapshot returns the last fetched snapshot, nil when the inverter was
// unreachable on the last attempt or no attempt was made yet.
func (f *Fetcher) Snapshot() *Snapshot {
	return f.snapshot.Load()
}

// Refresh fetches home.cgi unless an attempt was made within the throttle
// interval. Transport failures clear the snapshot; the inverter goes offline
// every night so they are not reported as errors.
func (f *Fetcher) Refresh(ctx context.Context) {
	if !f.throttle.Allow() {
		return
	}

	body, err := f.fetch(ctx)
	if err != nil {
		f.logger.Debug("fetcher: inverter unavailable", zap.Error(err))
		f.snapshot.Store(nil)
		return
	}

	snapshot := NewSnapshot(body, f.clock())
	f.snapshot.Store(snapshot)

	power, _ := snapshot.Line(LINE_POWER)
	energy, _ := snapshot.Line(LINE_ENERGY_TODAY)
	f.logger.Info("fetcher: data", zap.String("power", power), zap.String("energy_today", energy))
}

func (f *Fetcher) fetch(ctx context.Context) (string, error) {
	url := f.endpoint.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	return string(body), nil
}
