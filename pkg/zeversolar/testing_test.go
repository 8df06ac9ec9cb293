package zeversolar

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func homeCGI(power, energy string) string {
	lines := []string{
		"1",
		"1",
		"EAB9618C0399",
		"WSZ4RJRZ2N89HYNR",
		"M11",
		"17A31-727R+17829-719R",
		"12:42 21/06/2024",
		"1",
		"1",
		"SX00060118C9E013",
		power,
		energy,
		"OK",
		"Error",
	}
	return strings.Join(lines, "\n") + "\n"
}

type inverterServer struct {
	*httptest.Server
	requests atomic.Int32
	mu       sync.Mutex
	body     string
	status   int
}

func newInverterServer(t *testing.T, body string) *inverterServer {
	s := &inverterServer{body: body, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if r.URL.Path != HOME_PATH {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *inverterServer) set(body string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
	s.status = status
}

func (s *inverterServer) endpoint(t *testing.T) Endpoint {
	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return Endpoint{Host: u.Hostname(), Port: port}
}

// closedEndpoint returns an endpoint nothing listens on.
func closedEndpoint(t *testing.T) Endpoint {
	s := httptest.NewServer(http.NotFoundHandler())
	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	s.Close()
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return Endpoint{Host: u.Hostname(), Port: port}
}
