package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"portwait/internal/domain"
	"portwait/internal/shared/constants"
)

type Config struct {
	Wait    WaitConfig    `mapstructure:"wait"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	DNS     DNSConfig     `mapstructure:"dns"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type WaitConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	Interval         time.Duration `mapstructure:"interval"`
	MaxInterval      time.Duration `mapstructure:"max_interval"`
	Multiplier       float64       `mapstructure:"multiplier"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	EndpointDeadline time.Duration `mapstructure:"endpoint_deadline"`
	Jitter           bool          `mapstructure:"jitter"`
	JitterSeed       int64         `mapstructure:"jitter_seed"`
	Any              bool          `mapstructure:"any"`
}

type HTTPConfig struct {
	Method         string            `mapstructure:"method"`
	ExpectedStatus []int             `mapstructure:"expected_status"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	Headers        map[string]string `mapstructure:"headers"`
}

type DNSConfig struct {
	Server     string `mapstructure:"server"`
	RecordType string `mapstructure:"record_type"`
}

type OutputConfig struct {
	JSON    bool `mapstructure:"json"`
	Quiet   bool `mapstructure:"quiet"`
	Verbose bool `mapstructure:"verbose"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load builds the configuration with the usual precedence: flags over
// environment (PORTWAIT_*) over config file over defaults. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("PORTWAIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, domain.NewConfigurationError("error reading config file: %v", err)
		}
	} else {
		v.SetConfigName("portwait")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.portwait")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, domain.NewConfigurationError("error reading config file: %v", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, domain.NewConfigurationError("failed to unmarshal config: %v", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// wait defaults
	v.SetDefault("wait.timeout", constants.DefaultWaitTimeout)
	v.SetDefault("wait.interval", constants.DefaultInitialInterval)
	v.SetDefault("wait.max_interval", constants.DefaultMaxInterval)
	v.SetDefault("wait.multiplier", constants.DefaultMultiplier)
	v.SetDefault("wait.connect_timeout", constants.DefaultConnectTimeout)
	v.SetDefault("wait.max_attempts", 0)
	v.SetDefault("wait.endpoint_deadline", time.Duration(0))
	v.SetDefault("wait.jitter", false)
	v.SetDefault("wait.jitter_seed", int64(0))
	v.SetDefault("wait.any", false)

	// http defaults
	v.SetDefault("http.method", constants.DefaultHTTPMethod)
	v.SetDefault("http.expected_status", []int{constants.DefaultExpectedStatus})
	v.SetDefault("http.request_timeout", time.Duration(0))

	// dns defaults
	v.SetDefault("dns.server", constants.DefaultDNSServer)
	v.SetDefault("dns.record_type", constants.DefaultDNSRecordType)

	// output defaults
	v.SetDefault("output.json", false)
	v.SetDefault("output.quiet", false)
	v.SetDefault("output.verbose", false)

	// logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"timeout":           "wait.timeout",
	"interval":          "wait.interval",
	"max-interval":      "wait.max_interval",
	"multiplier":        "wait.multiplier",
	"connect-timeout":   "wait.connect_timeout",
	"max-attempts":      "wait.max_attempts",
	"endpoint-deadline": "wait.endpoint_deadline",
	"jitter":            "wait.jitter",
	"jitter-seed":       "wait.jitter_seed",
	"any":               "wait.any",
	"method":            "http.method",
	"expected-status":   "http.expected_status",
	"request-timeout":   "http.request_timeout",
	"dns-server":        "dns.server",
	"record-type":       "dns.record_type",
	"json":              "output.json",
	"quiet":             "output.quiet",
	"verbose":           "output.verbose",
	"log-level":         "logging.level",
	"log-format":        "logging.format",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return domain.NewConfigurationError("failed to bind flag %s: %v", name, err)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Wait.Timeout <= 0 {
		return domain.NewConfigurationError("wait timeout must be positive, got %s", cfg.Wait.Timeout)
	}
	if cfg.Wait.ConnectTimeout <= 0 {
		return domain.NewConfigurationError("connect timeout must be positive, got %s", cfg.Wait.ConnectTimeout)
	}
	if err := cfg.RetryPolicy().Validate(); err != nil {
		return err
	}
	switch cfg.HTTP.Method {
	case "GET", "POST", "HEAD":
	default:
		return domain.NewConfigurationError("unsupported HTTP method %q (use GET, POST or HEAD)", cfg.HTTP.Method)
	}
	for _, code := range cfg.HTTP.ExpectedStatus {
		if code < 100 || code > 599 {
			return domain.NewConfigurationError("invalid expected status code %d", code)
		}
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return domain.NewConfigurationError("invalid log level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return domain.NewConfigurationError("invalid log format %q", cfg.Logging.Format)
	}
	return nil
}

// RetryPolicy translates the wait section into the engine's retry policy.
func (c *Config) RetryPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		InitialInterval:  c.Wait.Interval,
		Multiplier:       c.Wait.Multiplier,
		MaxInterval:      c.Wait.MaxInterval,
		MaxAttempts:      c.Wait.MaxAttempts,
		EndpointDeadline: c.Wait.EndpointDeadline,
		Jitter:           c.Wait.Jitter,
		JitterSeed:       c.Wait.JitterSeed,
	}
}

func (c *Config) AggregatePolicy() domain.AggregatePolicy {
	if c.Wait.Any {
		return domain.RequireAny
	}
	return domain.RequireAll
}

// ParseHeaders turns repeated "Key: Value" flag values into a header map.
func ParseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, found := strings.Cut(h, ":")
		if !found || strings.TrimSpace(key) == "" {
			return nil, domain.NewConfigurationError("invalid header %q: use 'Key: Value'", h)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// EndpointSpecs parses the raw targets and fills in configured defaults.
func (c *Config) EndpointSpecs(targets []string, headers map[string]string) ([]domain.EndpointSpec, error) {
	if len(targets) == 0 {
		return nil, domain.NewConfigurationError("at least one target is required")
	}
	specs := make([]domain.EndpointSpec, 0, len(targets))
	for _, target := range targets {
		spec, err := domain.ParseTarget(target)
		if err != nil {
			return nil, err
		}
		spec.ConnectTimeout = c.Wait.ConnectTimeout
		switch spec.Kind {
		case domain.HTTPEndpoint:
			spec.Method = c.HTTP.Method
			spec.ExpectedStatus = append([]int(nil), c.HTTP.ExpectedStatus...)
			spec.RequestTimeout = c.HTTP.RequestTimeout
			if len(headers) > 0 {
				spec.Headers = headers
			} else if len(c.HTTP.Headers) > 0 {
				spec.Headers = c.HTTP.Headers
			}
		case domain.DNSEndpoint:
			spec.Server = c.DNS.Server
			if spec.RecordType == "" {
				spec.RecordType = c.DNS.RecordType
			}
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("timeout=%s interval=%s max_interval=%s policy=%s",
		c.Wait.Timeout, c.Wait.Interval, c.Wait.MaxInterval, c.AggregatePolicy())
}
