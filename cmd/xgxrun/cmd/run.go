package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xgxexec "github.com/xgx-io/xgx-exec"
	"github.com/xgx-io/xgx-exec/config"
	"github.com/xgx-io/xgx-exec/xgxlog"
	"github.com/xgx-io/xgx-exec/xgxprom"
)

var (
	timeoutSeconds int
	withMetrics    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command under a deadline",
	Long: `Run a command with the configured deadline. The child is killed when the
deadline fires; a non-zero exit is reported as a failed run carrying the
child's exit status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "deadline in seconds (default from config)")
	runCmd.Flags().BoolVar(&withMetrics, "metrics", false, "print Prometheus metrics after the run")
	_ = viper.BindPFlag("timeout", runCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("metrics", runCmd.Flags().Lookup("metrics"))
}

// Status values of a run report.
const (
	StatusOK          = "ok"
	StatusFailed      = "failed"
	StatusTimeout     = "timeout"
	StatusInterrupted = "interrupted"
	StatusError       = "error"
)

type runReport struct {
	ID        string  `json:"id" yaml:"id"`
	Command   string  `json:"command" yaml:"command"`
	Status    string  `json:"status" yaml:"status"`
	ExitCode  int     `json:"exit_code" yaml:"exit_code"`
	ElapsedMS float64 `json:"elapsed_ms" yaml:"elapsed_ms"`
	LimitS    int     `json:"limit_s" yaml:"limit_s"`
	Code      string  `json:"code,omitempty" yaml:"code,omitempty"`
	Error     string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	obs := xgxlog.Observer(logger)
	var reg *prometheus.Registry
	if settings.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		collector := xgxprom.NewCollector(settings.Metrics.Namespace)
		if err := collector.Register(reg); err != nil {
			return xgxexec.Wrap(err, "failed to register metrics")
		}
		obs = xgxexec.Observers(obs, collector)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := execute(ctx, settings, obs, args)
	if runErr != nil {
		xgxlog.Err(logger.Info(), runErr).Str("status", rep.Status).Msg("command did not succeed")
	}
	if err := renderReport(cmd.OutOrStdout(), outputFormat, rep); err != nil {
		return err
	}
	if reg != nil {
		if err := writeMetrics(cmd.OutOrStdout(), reg); err != nil {
			return err
		}
	}
	return runErr
}

// execute runs argv once under cfg's deadline and normalizer. The child
// inherits the process's standard streams.
func execute(ctx context.Context, cfg config.Config, obs xgxexec.Observer, argv []string) (runReport, error) {
	rep := runReport{
		ID:       uuid.NewString(),
		Command:  commandLine(argv),
		ExitCode: -1,
		LimitS:   cfg.Deadline.Seconds,
	}
	enf, err := cfg.Enforcer(xgxexec.WithObserver(obs))
	if err != nil {
		rep.Status, rep.Error = StatusError, err.Error()
		return rep, err
	}
	norm := cfg.Normalizer(
		xgxexec.Trap(xgxexec.As[*exec.ExitError]()),
		xgxexec.Ignore(xgxexec.OfCode(xgxexec.CodeTimeout)),
		xgxexec.ObserveTranslations(obs),
	)

	child := xgxexec.Reraise(norm, xgxexec.Deadline(enf, func(ctx context.Context) (int, error) {
		c := exec.CommandContext(ctx, argv[0], argv[1:]...)
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		err := c.Run()
		if c.ProcessState == nil {
			return -1, err
		}
		return c.ProcessState.ExitCode(), err
	}))

	elapsed, err := xgxexec.Measure(ctx, func(ctx context.Context) error {
		code, err := child(ctx)
		if err == nil || xgxexec.IsTranslated(err) {
			rep.ExitCode = code
		}
		return err
	}, xgxexec.WithObserver(obs))

	rep.ElapsedMS = float64(elapsed) / float64(time.Millisecond)
	rep.Status = classify(err)
	if err != nil {
		rep.Error = err.Error()
		rep.Code = string(xgxexec.CodeOf(err))
	}
	return rep, err
}

func classify(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case xgxexec.IsDeadline(err):
		return StatusTimeout
	case xgxexec.IsTranslated(err):
		return StatusFailed
	case xgxexec.IsInterrupt(err):
		return StatusInterrupted
	default:
		return StatusError
	}
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return xgxexec.Wrap(err, "failed to gather metrics")
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return xgxexec.Wrap(err, "failed to write metrics", "family", mf.GetName())
		}
	}
	return nil
}
