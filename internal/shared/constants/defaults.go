package constants

import "time"

const (
	DefaultWaitTimeout     = 30 * time.Second
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 5 * time.Second
	DefaultMultiplier      = 2.0
	DefaultConnectTimeout  = 2 * time.Second

	DefaultHTTPMethod     = "GET"
	DefaultExpectedStatus = 200

	DefaultDNSServer     = "8.8.8.8:53"
	DefaultDNSRecordType = "A"

	DefaultEventBuffer = 256
)
