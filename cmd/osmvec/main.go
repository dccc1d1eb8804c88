package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/natevvv/osm-vector-map/internal/cli"
	apperrors "github.com/natevvv/osm-vector-map/pkg/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", apperrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps input errors to 2 and everything else to 1.
func exitCode(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidBBox, apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat:
		return 2
	default:
		return 1
	}
}
