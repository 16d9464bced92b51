package main

import (
	"fmt"
	"os"

	"portwait/internal/domain"
	"portwait/internal/report"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if domain.IsConfigurationError(err) {
			os.Exit(report.ExitConfigError)
		}
		os.Exit(report.ExitWaitFailed)
	}
	os.Exit(exitCode)
}
