package domain

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portwait/pkg/uuidutil"
)

type Kind string

const (
	TCPEndpoint      Kind = "tcp"
	HTTPEndpoint     Kind = "http"
	DNSEndpoint      Kind = "dns"
	PostgresEndpoint Kind = "postgres"
	RedisEndpoint    Kind = "redis"
)

// EndpointSpec describes one target to wait for. It is built once from the
// input configuration and never mutated afterwards.
type EndpointSpec struct {
	ID     string
	Kind   Kind
	Target string

	// tcp
	Host string
	Port int

	// http
	URL            string
	Method         string
	ExpectedStatus []int
	Headers        map[string]string

	// dns
	RecordType string
	Server     string

	// postgres / redis
	DSN string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// ProbeTimeout returns the time budget for a single probe of this endpoint.
// HTTP endpoints may bound the full request independently of the connect
// timeout; everyone else uses the connect timeout.
func (s EndpointSpec) ProbeTimeout() time.Duration {
	if s.Kind == HTTPEndpoint && s.RequestTimeout > 0 {
		return s.RequestTimeout
	}
	return s.ConnectTimeout
}

// StatusExpected reports whether an HTTP status code counts as success.
func (s EndpointSpec) StatusExpected(code int) bool {
	for _, want := range s.ExpectedStatus {
		if code == want {
			return true
		}
	}
	return false
}

// ParseTarget classifies a raw target string into an EndpointSpec.
//
//	host:port            -> tcp
//	http(s)://...        -> http
//	dns://name[/TYPE]    -> dns
//	postgres://...       -> postgres
//	redis://...          -> redis
func ParseTarget(target string) (EndpointSpec, error) {
	spec := EndpointSpec{
		ID:     uuidutil.New(),
		Target: target,
	}

	if target == "" {
		return spec, NewConfigurationError("empty target")
	}

	if !strings.Contains(target, "://") {
		host, portStr, err := net.SplitHostPort(target)
		if err != nil {
			return spec, NewConfigurationError("invalid target %q: use host:port or a scheme://... URL", target)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return spec, NewConfigurationError("invalid port in target %q", target)
		}
		spec.Kind = TCPEndpoint
		spec.Host = host
		spec.Port = port
		return spec, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return spec, NewConfigurationError("invalid target %q: %v", target, err)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return spec, NewConfigurationError("invalid target %q: missing host", target)
		}
		spec.Kind = HTTPEndpoint
		spec.URL = target
	case "dns":
		if u.Host == "" {
			return spec, NewConfigurationError("invalid target %q: missing name to resolve", target)
		}
		spec.Kind = DNSEndpoint
		spec.Host = u.Host
		if record := strings.Trim(u.Path, "/"); record != "" {
			spec.RecordType = strings.ToUpper(record)
		}
	case "postgres", "postgresql":
		spec.Kind = PostgresEndpoint
		spec.DSN = target
	case "redis", "rediss":
		spec.Kind = RedisEndpoint
		spec.DSN = target
	default:
		return spec, NewConfigurationError("unsupported target scheme %q in %q", u.Scheme, target)
	}
	return spec, nil
}

// Validate reports a ConfigurationError for specs that must not reach the
// probing loop.
func (s EndpointSpec) Validate() error {
	if s.ConnectTimeout <= 0 {
		return NewConfigurationError("endpoint %s: connect timeout must be positive", s.Target)
	}
	if s.RequestTimeout < 0 {
		return NewConfigurationError("endpoint %s: request timeout must not be negative", s.Target)
	}
	switch s.Kind {
	case TCPEndpoint:
		if s.Host == "" || s.Port == 0 {
			return NewConfigurationError("endpoint %s: missing host or port", s.Target)
		}
	case HTTPEndpoint:
		if s.URL == "" {
			return NewConfigurationError("endpoint %s: missing URL", s.Target)
		}
		switch s.Method {
		case "GET", "POST", "HEAD":
		default:
			return NewConfigurationError("endpoint %s: unsupported HTTP method %q", s.Target, s.Method)
		}
		if len(s.ExpectedStatus) == 0 {
			return NewConfigurationError("endpoint %s: no expected status codes", s.Target)
		}
	case DNSEndpoint:
		if s.Host == "" {
			return NewConfigurationError("endpoint %s: missing name to resolve", s.Target)
		}
	case PostgresEndpoint, RedisEndpoint:
		if s.DSN == "" {
			return NewConfigurationError("endpoint %s: missing DSN", s.Target)
		}
	default:
		return NewConfigurationError("endpoint %s: unknown kind %q", s.Target, s.Kind)
	}
	return nil
}

func (s EndpointSpec) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Target)
}
