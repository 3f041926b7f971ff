package cmd

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xgxexec "github.com/xgx-io/xgx-exec"
	"github.com/xgx-io/xgx-exec/config"
	"github.com/xgx-io/xgx-exec/xgxlog"
)

// Exit statuses for runs that did not end on their own. ExitTimeout matches
// coreutils timeout(1).
const (
	ExitTimeout     = 124
	ExitInterrupted = 130
)

var (
	cfgFile      string
	outputFormat string

	// effective configuration, resolved in PersistentPreRunE
	settings config.Config
	logger   zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "xgxrun",
	Short: "Run commands under a deadline",
	Long: `xgxrun runs a command under a per-call deadline, times it and reports how it ended:
ok, failed (non-zero exit), timeout or interrupted.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./xgx.{toml,yaml} or $HOME/.xgx/xgx.{toml,yaml})")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table, json or yaml")

	viper.SetEnvPrefix("XGXRUN")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// loadSettings resolves defaults < config file < XGX_* env < flags.
func loadSettings(cmd *cobra.Command, _ []string) error {
	path, err := findConfig(cfgFile)
	if err != nil {
		return err
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if viper.IsSet("timeout") {
		cfg.Deadline.Seconds = viper.GetInt("timeout")
	}
	if viper.IsSet("metrics") {
		cfg.Metrics.Enabled = viper.GetBool("metrics")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	outputFormat = viper.GetString("output")
	if err := validOutput(outputFormat); err != nil {
		return err
	}

	settings = cfg
	logger = xgxlog.New(cmd.ErrOrStderr(), "xgxrun", cfg.Log.Settings().FromEnv())
	log.Logger = logger
	if path != "" {
		logger.Debug().Str("path", path).Msg("config loaded")
	}
	return nil
}

// findConfig returns explicit when set, else the first xgx.toml / xgx.yaml
// found by viper in the working directory or $HOME/.xgx. No file is fine.
func findConfig(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	v := viper.New()
	v.SetConfigName("xgx")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".xgx"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", xgxexec.Wrap(err, "config discovery failed")
	}
	return v.ConfigFileUsed(), nil
}

// ExitCode maps the error returned by Execute onto a process exit status:
// the child's own status for failed commands, ExitTimeout for deadlines,
// ExitInterrupted for cancelled runs and 1 for anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case xgxexec.IsDeadline(err):
		return ExitTimeout
	case classify(err) == StatusInterrupted:
		return ExitInterrupted
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
