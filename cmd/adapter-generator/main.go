// Package main provides the CLI entrypoint for adapter-generator.
//
// adapter-generator is a Go codegen tool that:
//   - Loads Go packages (go/packages + go/types) and finds converter types
//   - Collects external conversions declared through //adaptergen: directives or YAML
//   - Deduplicates every conversion into a registry keyed by (source, target)
//   - Generates one adapter type whose methods delegate to a runtime dispatcher
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
