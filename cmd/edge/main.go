// Package main is the entrypoint for the edge gateway.
// The edge fronts the scheduling application, authorizing every request
// against the route policy before proxying it upstream.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/slotwise/edge-gateway/internal/config"
	"github.com/slotwise/edge-gateway/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:           "edge",
		PortFromConfig: func(cfg *config.Config) int { return cfg.Edge.HTTPPort },
		Setup:          setup,
	}, nil)
}
