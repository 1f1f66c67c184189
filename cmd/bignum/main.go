// Command bignum evaluates arbitrary-precision integer and decimal
// arithmetic expressions, optionally cross-checking the result against the
// standard library's math/big implementation.
package main

import (
	"context"
	"os"

	"github.com/agbru/bignum/internal/app"
	apperrors "github.com/agbru/bignum/internal/errors"
)

func main() {
	// Handle version flag before full config parsing so it works in any
	// position.
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
