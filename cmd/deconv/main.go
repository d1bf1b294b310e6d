// SPDX-License-Identifier: MIT

// Command deconv estimates cell-type proportions of bulk expression samples
// from a reference profile by per-sample non-negative least squares.
//
//	deconv run --profile signature.txt.gz --expression bulk.txt.gz --outdir results
//	deconv version
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
