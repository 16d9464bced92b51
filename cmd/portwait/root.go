package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portwait/internal/config"
	"portwait/internal/domain"
	"portwait/internal/report"
	"portwait/internal/shared/constants"
	"portwait/internal/wait"
	"portwait/pkg/validator"
)

// exitCode is what the process exits with after a completed wait.
var exitCode = report.ExitSuccess

func newRootCommand() *cobra.Command {
	var (
		cfgFile string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "portwait [targets...]",
		Short: "Wait until TCP ports, HTTP endpoints and backing services are ready",
		Long: `portwait blocks until the given targets become reachable, or a deadline
expires, then reports per-target and overall status.

Targets:
  host:port               TCP connect check
  http(s)://host/path     HTTP status check
  dns://name[/TYPE]       DNS record check
  postgres://...          PostgreSQL ping
  redis://...             Redis PING

Examples:
  portwait localhost:5432
  portwait http://api:8080/health --expected-status 200
  portwait postgres://user:pass@db:5432/app redis://cache:6379 --any`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return domain.NewConfigurationError("at least one target is required")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, cfgFile, headers)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file")
	flags.DurationP("timeout", "t", constants.DefaultWaitTimeout, "Maximum time to wait overall")
	flags.DurationP("interval", "i", constants.DefaultInitialInterval, "Initial retry interval")
	flags.Duration("max-interval", constants.DefaultMaxInterval, "Maximum retry interval")
	flags.Float64("multiplier", constants.DefaultMultiplier, "Backoff multiplier")
	flags.Duration("connect-timeout", constants.DefaultConnectTimeout, "Per-probe connection timeout")
	flags.Int("max-attempts", 0, "Maximum probes per target (0 = unbounded)")
	flags.Duration("endpoint-deadline", 0, "Per-target wait cap (0 = global timeout only)")
	flags.Bool("jitter", false, "Add seeded jitter to retry delays")
	flags.Int64("jitter-seed", 0, "Seed for retry jitter")
	flags.Bool("any", false, "Succeed when ANY target is ready (default: ALL)")
	flags.String("method", constants.DefaultHTTPMethod, "HTTP method (GET/POST/HEAD)")
	flags.IntSlice("expected-status", []int{constants.DefaultExpectedStatus}, "Expected HTTP status codes")
	flags.Duration("request-timeout", 0, "Full HTTP request timeout (default: connect timeout)")
	flags.StringArrayVarP(&headers, "header", "H", nil, "HTTP header (format: 'Key: Value')")
	flags.String("dns-server", constants.DefaultDNSServer, "DNS server for dns:// targets")
	flags.String("record-type", constants.DefaultDNSRecordType, "DNS record type for dns:// targets")
	flags.BoolP("verbose", "v", false, "Show per-attempt progress")
	flags.BoolP("quiet", "q", false, "Only output on failure")
	flags.Bool("json", false, "Output results as JSON")
	flags.String("log-level", "", "Log level (debug/info/warn/error)")
	flags.String("log-format", "", "Log format (text/json)")

	return cmd
}

func run(cmd *cobra.Command, targets []string, cfgFile string, rawHeaders []string) error {
	for _, target := range targets {
		if !validator.ValidateTarget(target) {
			return domain.NewConfigurationError("invalid target %q: use host:port or a supported scheme://... URL", target)
		}
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	headers, err := config.ParseHeaders(rawHeaders)
	if err != nil {
		return err
	}
	specs, err := cfg.EndpointSpecs(targets, headers)
	if err != nil {
		return err
	}

	opts := []wait.Option{
		wait.WithRetryPolicy(cfg.RetryPolicy()),
		wait.WithAggregatePolicy(cfg.AggregatePolicy()),
		wait.WithTimeout(cfg.Wait.Timeout),
		wait.WithLogger(logger),
	}
	if cfg.Output.Verbose {
		opts = append(opts, wait.WithEventStream(constants.DefaultEventBuffer))
	}
	coordinator := wait.NewCoordinator(opts...)
	reporter := report.NewReporter(cmd.OutOrStdout(), cfg.Output.JSON, cfg.Output.Quiet, cfg.Output.Verbose)

	var streamDone chan struct{}
	if events := coordinator.Events(); events != nil {
		streamDone = make(chan struct{})
		go func() {
			defer close(streamDone)
			reporter.StreamAttempts(events)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := coordinator.Wait(ctx, specs)
	if err != nil {
		return err
	}
	if streamDone != nil {
		<-streamDone
	}

	logger.Debug("wait completed", "elapsed", time.Since(start), "success", result.Success)

	if err := reporter.Report(result); err != nil {
		return err
	}
	exitCode = report.ExitCode(result)
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
