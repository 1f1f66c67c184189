package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/bignum/internal/calibration"
	"github.com/agbru/bignum/internal/cli"
	"github.com/agbru/bignum/internal/config"
	"github.com/agbru/bignum/internal/decimal"
	apperrors "github.com/agbru/bignum/internal/errors"
	"github.com/agbru/bignum/internal/format"
	"github.com/agbru/bignum/internal/logging"
	"github.com/agbru/bignum/internal/orchestration"
	"github.com/agbru/bignum/internal/ui"
)

// Application represents the bignum application instance. It encapsulates
// the configuration and provides methods to run the application in its
// various modes (evaluation, calibration).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or
// validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	availableOps := orchestration.SupportedOps()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "bignum"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableOps)
	if err != nil {
		return nil, err
	}

	// Use optimal thresholds found in previous runs when available.
	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode. It dispatches
// to calibration or to the standard evaluation flow and returns the process
// exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	level := zerolog.InfoLevel
	if a.Config.Details {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// Respects --no-color flag and NO_COLOR env var
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return calibration.RunCalibrationWithOptions(ctx, out, calibration.CalibrationOptions{
			ProfilePath: a.Config.CalibrationProfile,
			SaveProfile: true,
		})
	}

	if a.Config.AutoCalibrate {
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out); ok {
			a.Config = updated
		}
	}
	calibration.ApplyThresholds(a.Config)

	return a.runEvaluate(ctx, out)
}

// runEvaluate orchestrates the execution of one evaluation, including the
// reference cross-check when enabled.
func (a *Application) runEvaluate(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	req := a.buildRequest()
	logger := logging.NewLogger(a.ErrWriter, "app")
	logger.Debug("starting evaluation",
		logging.String("operation", req.Op),
		logging.Int("operands", len(req.Operands)),
		logging.Int("base", req.Base))

	engines := []orchestration.Engine{orchestration.NewNativeEngine()}
	reference := orchestration.NewReferenceEngine()
	if a.Config.Verify && reference.Supports(req.Op) {
		engines = append(engines, reference)
	}

	structured := a.Config.JSONOutput || a.Config.Quiet
	if !structured {
		fmt.Fprintln(out, ui.RenderBanner(fmt.Sprintf("bignum %s", Version)))
		a.printExecutionConfig(out, len(engines))
	}

	// In quiet and JSON modes the progress display is suppressed.
	progressOut := out
	if structured {
		progressOut = io.Discard
	}

	results := orchestration.ExecuteEvaluations(ctx, engines, req, progressOut)

	analysisOut := out
	if structured {
		analysisOut = io.Discard
	}
	best, exitCode := orchestration.AnalyzeComparisonResults(results, analysisOut)
	if exitCode != apperrors.ExitSuccess || best == nil {
		if structured {
			a.printFirstError(results, exitCode)
		}
		return exitCode
	}

	opts := cli.OutputOptions{
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		JSON:       a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
		OutputFile: a.Config.OutputFile,
	}
	if err := cli.DisplayResult(req.Op, req.Operands, best.Value, best.EngineName, best.Duration, opts, out); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if opts.OutputFile != "" && !structured {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), opts.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// buildRequest converts the configuration into an evaluation request.
func (a *Application) buildRequest() orchestration.Request {
	// Validate guarantees the mode name resolves.
	mode, _ := decimal.ParseRoundingMode(a.Config.Rounding)
	return orchestration.Request{
		Op:        a.Config.Op,
		Operands:  a.Config.Operands,
		Base:      a.Config.Base,
		Scale:     a.Config.Scale,
		Rounding:  mode,
		Certainty: a.Config.Certainty,
		PrimeBits: a.Config.PrimeBits,
	}
}

// printExecutionConfig summarizes the run parameters before evaluation.
func (a *Application) printExecutionConfig(out io.Writer, numEngines int) {
	fmt.Fprintf(out, "Operation: %s%s%s, base %s%d%s, timeout %s%s%s\n",
		ui.ColorCyan(), a.Config.Op, ui.ColorReset(),
		ui.ColorCyan(), a.Config.Base, ui.ColorReset(),
		ui.ColorCyan(), a.Config.Timeout, ui.ColorReset())
	for i, operand := range a.Config.Operands {
		fmt.Fprintf(out, "Operand %d: %s (%s)\n", i+1, shortOperand(operand), format.FormatDigitCount(len(operand)))
	}
	if numEngines > 1 {
		fmt.Fprintf(out, "Cross-checking against the %s engine.\n", orchestration.ReferenceEngineName)
	}
}

func shortOperand(s string) string {
	if len(s) <= cli.TruncationLimit {
		return s
	}
	return s[:cli.DisplayEdges] + "..." + s[len(s)-cli.DisplayEdges:]
}

// printFirstError reports the first evaluation error on the error writer.
// Used in quiet and JSON modes where the comparison summary is suppressed.
func (a *Application) printFirstError(results []orchestration.EvaluationResult, exitCode int) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", res.Err)
			return
		}
	}
	if exitCode == apperrors.ExitErrorMismatch {
		fmt.Fprintln(a.ErrWriter, "Error: engine results are inconsistent")
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
