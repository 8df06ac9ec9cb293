package zeversolar

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

const (
	HOME_PATH    = "/home.cgi"
	DEFAULT_PORT = 80
)

var ErrInvalidEndpoint = errors.New("invalid inverter endpoint")

// Endpoint identifies the inverter's network location.
type Endpoint struct {
	Host string
	Port int
}

func NewEndpoint(host string, port int) (Endpoint, error) {
	ep := Endpoint{Host: host, Port: port}
	if err := ep.Validate(); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}

func (e Endpoint) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidEndpoint)
	}
	if e.Port <= 0 || e.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidEndpoint, e.Port)
	}
	return nil
}

func (e Endpoint) URL() string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), HOME_PATH)
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}
