package probe

import (
	"portwait/internal/domain"
)

// Factory hands out the prober for an endpoint kind. Probers are stateless
// and shared across monitors.
type Factory struct {
	tcp      *TCPProber
	http     *HTTPProber
	dns      *DNSProber
	postgres *PostgresProber
	redis    *RedisProber
}

func NewFactory() *Factory {
	return &Factory{
		tcp:      NewTCPProber(),
		http:     NewHTTPProber(),
		dns:      NewDNSProber(),
		postgres: NewPostgresProber(),
		redis:    NewRedisProber(),
	}
}

func (f *Factory) ProberFor(kind domain.Kind) (Prober, error) {
	switch kind {
	case domain.TCPEndpoint:
		return f.tcp, nil
	case domain.HTTPEndpoint:
		return f.http, nil
	case domain.DNSEndpoint:
		return f.dns, nil
	case domain.PostgresEndpoint:
		return f.postgres, nil
	case domain.RedisEndpoint:
		return f.redis, nil
	default:
		return nil, domain.NewConfigurationError("no prober for endpoint kind %q", kind)
	}
}
