package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"

	"portwait/internal/domain"
)

// Prober runs a single check against one endpoint. A nil error means the
// endpoint is ready. Probers never retry; the wait loop owns retries.
type Prober interface {
	Probe(ctx context.Context, spec domain.EndpointSpec) error
}

// StatusError reports an HTTP response outside the expected status set.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// Classify maps a probe error onto the attempt failure taxonomy. Unknown
// errors fall back to a kind-appropriate catch-all.
func Classify(kind domain.Kind, err error) domain.FailureReason {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return domain.UnexpectedStatus(statusErr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ReasonTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.ReasonDNSError
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.ReasonRefused
	}
	if errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return domain.ReasonUnreachable
	}

	if isTLSError(err) {
		return domain.ReasonTLSError
	}

	switch kind {
	case domain.TCPEndpoint:
		return domain.ReasonUnreachable
	case domain.DNSEndpoint:
		return domain.ReasonDNSError
	case domain.PostgresEndpoint, domain.RedisEndpoint:
		return domain.ReasonServerError
	default:
		return domain.ReasonConnectionError
	}
}

func isTLSError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		certErr    x509.CertificateInvalidError
		unknownErr x509.UnknownAuthorityError
		hostErr    x509.HostnameError
	)
	return errors.As(err, &recordErr) || errors.As(err, &verifyErr) ||
		errors.As(err, &certErr) || errors.As(err, &unknownErr) || errors.As(err, &hostErr)
}
