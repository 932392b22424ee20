package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"

	"github.com/go-sod/rangetree/internal/buildinfo"
	"github.com/go-sod/rangetree/internal/driver"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintln(os.Stdout, buildinfo.Info)

	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := run(ctx); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context) error {
	var cfg driver.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}
	if cfg.Debug {
		ctx = logging.WithLogger(ctx, logging.NewLogger(true))
	}

	if err := driver.Run(ctx, &cfg); err != nil {
		return fmt.Errorf("driver.Run: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Range Tree tests completed. Results written to %s\n", cfg.Output)
	return nil
}
