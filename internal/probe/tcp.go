package probe

import (
	"context"
	"net"
	"strconv"

	"portwait/internal/domain"
)

// TCPProber checks that a TCP connection to host:port can be established.
type TCPProber struct {
	dialer net.Dialer
}

func NewTCPProber() *TCPProber {
	return &TCPProber{}
}

func (p *TCPProber) Probe(ctx context.Context, spec domain.EndpointSpec) error {
	address := net.JoinHostPort(spec.Host, strconv.Itoa(spec.Port))

	conn, err := p.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}
