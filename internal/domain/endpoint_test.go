package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget_Classification(t *testing.T) {
	tests := []struct {
		name   string
		target string
		kind   Kind
		check  func(t *testing.T, spec EndpointSpec)
	}{
		{
			name:   "tcp host port",
			target: "localhost:5432",
			kind:   TCPEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "localhost", spec.Host)
				assert.Equal(t, 5432, spec.Port)
			},
		},
		{
			name:   "tcp ipv6",
			target: "[::1]:80",
			kind:   TCPEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "::1", spec.Host)
				assert.Equal(t, 80, spec.Port)
			},
		},
		{
			name:   "http url",
			target: "http://api:8080/health",
			kind:   HTTPEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "http://api:8080/health", spec.URL)
			},
		},
		{
			name:   "https url",
			target: "https://example.com/",
			kind:   HTTPEndpoint,
		},
		{
			name:   "dns name",
			target: "dns://example.com",
			kind:   DNSEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "example.com", spec.Host)
				assert.Empty(t, spec.RecordType)
			},
		},
		{
			name:   "dns name with record type",
			target: "dns://example.com/mx",
			kind:   DNSEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "MX", spec.RecordType)
			},
		},
		{
			name:   "postgres dsn",
			target: "postgres://user:pass@db:5432/app",
			kind:   PostgresEndpoint,
			check: func(t *testing.T, spec EndpointSpec) {
				assert.Equal(t, "postgres://user:pass@db:5432/app", spec.DSN)
			},
		},
		{
			name:   "postgresql scheme",
			target: "postgresql://db:5432/app",
			kind:   PostgresEndpoint,
		},
		{
			name:   "redis url",
			target: "redis://cache:6379/0",
			kind:   RedisEndpoint,
		},
		{
			name:   "rediss url",
			target: "rediss://cache:6380",
			kind:   RedisEndpoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseTarget(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.target, spec.Target)
			assert.NotEmpty(t, spec.ID)
			if tt.check != nil {
				tt.check(t, spec)
			}
		})
	}
}

func TestParseTarget_Rejects(t *testing.T) {
	targets := []string{
		"",
		"localhost",
		"localhost:notaport",
		"localhost:0",
		"localhost:99999",
		"ftp://example.com",
		"dns://",
		"http://",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			_, err := ParseTarget(target)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestParseTarget_AssignsUniqueIDs(t *testing.T) {
	a, err := ParseTarget("localhost:80")
	require.NoError(t, err)
	b, err := ParseTarget("localhost:80")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEndpointSpec_ProbeTimeout(t *testing.T) {
	spec := EndpointSpec{
		Kind:           HTTPEndpoint,
		ConnectTimeout: 2 * time.Second,
	}
	assert.Equal(t, 2*time.Second, spec.ProbeTimeout(), "request timeout defaults to connect timeout")

	spec.RequestTimeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, spec.ProbeTimeout())

	tcp := EndpointSpec{
		Kind:           TCPEndpoint,
		ConnectTimeout: 2 * time.Second,
		RequestTimeout: 5 * time.Second,
	}
	assert.Equal(t, 2*time.Second, tcp.ProbeTimeout(), "request timeout is HTTP-only")
}

func TestEndpointSpec_StatusExpected(t *testing.T) {
	spec := EndpointSpec{ExpectedStatus: []int{200, 204}}
	assert.True(t, spec.StatusExpected(200))
	assert.True(t, spec.StatusExpected(204))
	assert.False(t, spec.StatusExpected(500))
}

func TestEndpointSpec_Validate(t *testing.T) {
	valid := EndpointSpec{
		Kind:           HTTPEndpoint,
		Target:         "http://x/health",
		URL:            "http://x/health",
		Method:         "GET",
		ExpectedStatus: []int{200},
		ConnectTimeout: time.Second,
	}
	require.NoError(t, valid.Validate())

	noTimeout := valid
	noTimeout.ConnectTimeout = 0
	assert.True(t, IsConfigurationError(noTimeout.Validate()))

	negativeRequest := valid
	negativeRequest.RequestTimeout = -time.Second
	assert.True(t, IsConfigurationError(negativeRequest.Validate()))

	badMethod := valid
	badMethod.Method = "DELETE"
	assert.True(t, IsConfigurationError(badMethod.Validate()))

	noStatus := valid
	noStatus.ExpectedStatus = nil
	assert.True(t, IsConfigurationError(noStatus.Validate()))

	tcpMissingPort := EndpointSpec{
		Kind:           TCPEndpoint,
		Target:         "db",
		Host:           "db",
		ConnectTimeout: time.Second,
	}
	assert.True(t, IsConfigurationError(tcpMissingPort.Validate()))
}
