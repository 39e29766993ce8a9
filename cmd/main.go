package main

import (
	"context"
	"os"

	"github.com/desertthunder/tvplus/internal/shared"
)

func main() {
	logger := shared.WithLogger(shared.NewLogger(nil), "run", shared.GenerateID())

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: logger,
	})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
