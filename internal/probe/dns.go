package probe

import (
	"context"
	"fmt"

	"github.com/miekg/dns"

	"portwait/internal/domain"
)

// DNSProber succeeds once a query for the endpoint's name returns at least
// one record of the configured type.
type DNSProber struct {
	client *dns.Client
}

func NewDNSProber() *DNSProber {
	return &DNSProber{
		client: &dns.Client{},
	}
}

func (p *DNSProber) Probe(ctx context.Context, spec domain.EndpointSpec) error {
	msg := dns.Msg{}
	msg.SetQuestion(dns.Fqdn(spec.Host), recordTypeToDNSType(spec.RecordType))

	response, _, err := p.client.ExchangeContext(ctx, &msg, spec.Server)
	if err != nil {
		return fmt.Errorf("DNS query failed: %w", err)
	}

	if response.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("DNS error: %s", dns.RcodeToString[response.Rcode])
	}
	if len(response.Answer) == 0 {
		return fmt.Errorf("no %s records for %s", spec.RecordType, spec.Host)
	}
	return nil
}

func recordTypeToDNSType(recordType string) uint16 {
	switch recordType {
	case "A":
		return dns.TypeA
	case "AAAA":
		return dns.TypeAAAA
	case "MX":
		return dns.TypeMX
	case "NS":
		return dns.TypeNS
	case "TXT":
		return dns.TypeTXT
	case "CNAME":
		return dns.TypeCNAME
	case "SOA":
		return dns.TypeSOA
	case "PTR":
		return dns.TypePTR
	case "SRV":
		return dns.TypeSRV
	default:
		return dns.TypeA
	}
}
