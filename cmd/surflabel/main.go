package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/surflabel/internal/cli"
	slerrors "github.com/matzehuels/surflabel/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "error:", slerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps invalid input to 2 and everything else to 1.
func exitCode(err error) int {
	if slerrors.IsInvalid(err) {
		return 2
	}
	return 1
}
