// config.go — file and environment configuration for xgx-exec components.
//
// Precedence, lowest first: Default(), the config file, XGX_* environment
// variables. Command-line flags are layered on top by the caller.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	xgxexec "github.com/xgx-io/xgx-exec"
	"github.com/xgx-io/xgx-exec/xgxlog"
)

// Environment variables read by ApplyEnv.
const (
	EnvDeadlineSeconds = "XGX_DEADLINE_SECONDS"
	EnvZeroPolicy      = "XGX_ZERO_POLICY"
)

// Config is the file layout shared by TOML and YAML.
type Config struct {
	Deadline  Deadline  `toml:"deadline" yaml:"deadline"`
	Normalize Normalize `toml:"normalize" yaml:"normalize"`
	Log       Log       `toml:"log" yaml:"log"`
	Metrics   Metrics   `toml:"metrics" yaml:"metrics"`
}

// Deadline configures the Enforcer. ZeroPolicy is "fire" or "reject".
type Deadline struct {
	Seconds    int    `toml:"seconds" yaml:"seconds"`
	ZeroPolicy string `toml:"zero_policy" yaml:"zero_policy"`
}

// Normalize configures the Normalizer. Kind is the code of translated errors.
type Normalize struct {
	Kind    string `toml:"kind" yaml:"kind"`
	Message string `toml:"message,omitempty" yaml:"message,omitempty"`
	Stack   bool   `toml:"stack" yaml:"stack"`
	// Ignore lists error codes that are never translated.
	Ignore []string `toml:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// Log mirrors xgxlog.Settings; Level uses xgxlog.ParseLevel names.
type Log struct {
	Level     string `toml:"level" yaml:"level"`
	NoColor   bool   `toml:"no_color" yaml:"no_color"`
	Timestamp bool   `toml:"timestamp" yaml:"timestamp"`
	JSON      bool   `toml:"json" yaml:"json"`
}

// Metrics enables the Prometheus collector under Namespace.
type Metrics struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// Default returns a valid configuration: 30 second deadline, zero fires,
// kind "translated", info logging with timestamps, namespace "xgx".
func Default() Config {
	return Config{
		Deadline:  Deadline{Seconds: 30, ZeroPolicy: xgxexec.ZeroFires.String()},
		Normalize: Normalize{Kind: string(xgxexec.CodeTranslated)},
		Log:       Log{Level: "info", Timestamp: true},
		Metrics:   Metrics{Namespace: "xgx"},
	}
}

// Load reads a .toml, .yaml or .yml file over Default() and validates the
// result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xgxexec.Wrap(err, "config load failed", "path", path)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, parseFailed(path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, xgxexec.Invalid("config", fmt.Sprintf("unknown key %q", undecoded[0].String())).
				With("path", path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, parseFailed(path, err)
		}
	default:
		return Config{}, xgxexec.Invalid("config", fmt.Sprintf("unsupported extension %q", ext)).With("path", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseFailed(path string, err error) error {
	return xgxexec.Wrap(err, "config parse failed", "path", path).Code(xgxexec.CodeInvalid)
}

// Validate reports the first invalid value as an xgxexec invalid error.
func (c Config) Validate() error {
	if c.Deadline.Seconds < 0 {
		return xgxexec.Invalid("deadline.seconds", "must not be negative")
	}
	p, err := xgxexec.ParseZeroPolicy(c.Deadline.ZeroPolicy)
	if err != nil {
		return err
	}
	if c.Deadline.Seconds == 0 && p == xgxexec.ZeroRejects {
		return xgxexec.Invalid("deadline.seconds", "zero deadline rejected by policy")
	}
	if strings.TrimSpace(c.Normalize.Kind) == "" {
		return xgxexec.Invalid("normalize.kind", "must not be empty")
	}
	if c.Log.Level != "" {
		if _, ok := xgxlog.ParseLevel(c.Log.Level); !ok {
			return xgxexec.Invalid("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
		}
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return xgxexec.Invalid("metrics.namespace", "required when metrics are enabled")
	}
	return nil
}

// ApplyEnv overlays XGX_DEADLINE_SECONDS and XGX_ZERO_POLICY. Only malformed
// values are reported; call Validate once every layer is applied.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if raw := strings.TrimSpace(getenv(EnvDeadlineSeconds)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return xgxexec.Invalid(EnvDeadlineSeconds, "not an integer").With("value", raw)
		}
		c.Deadline.Seconds = n
	}
	if raw := strings.TrimSpace(getenv(EnvZeroPolicy)); raw != "" {
		c.Deadline.ZeroPolicy = raw
	}
	return nil
}

// Enforcer builds the configured deadline enforcer; opts are applied after
// the configured zero policy.
func (c Config) Enforcer(opts ...xgxexec.Option) (*xgxexec.Enforcer, error) {
	p, err := xgxexec.ParseZeroPolicy(c.Deadline.ZeroPolicy)
	if err != nil {
		return nil, err
	}
	return xgxexec.NewEnforcer(c.Deadline.Seconds, append([]xgxexec.Option{xgxexec.WithZeroPolicy(p)}, opts...)...)
}

// Normalizer builds the configured normalizer; opts are applied after the
// configured ones and may narrow the trap or override the kind.
func (c Config) Normalizer(opts ...xgxexec.NormalizeOption) *xgxexec.Normalizer {
	base := []xgxexec.NormalizeOption{xgxexec.WithKind(xgxexec.Code(c.Normalize.Kind))}
	if c.Normalize.Message != "" {
		base = append(base, xgxexec.WithMessage(c.Normalize.Message))
	}
	if c.Normalize.Stack {
		base = append(base, xgxexec.WithTranslationStack())
	}
	for _, code := range c.Normalize.Ignore {
		base = append(base, xgxexec.Ignore(xgxexec.OfCode(xgxexec.Code(code))))
	}
	return xgxexec.NewNormalizer(append(base, opts...)...)
}

// Settings maps the log section onto xgxlog settings. Env overrides are not
// applied here.
func (l Log) Settings() xgxlog.Settings {
	lvl, ok := xgxlog.ParseLevel(l.Level)
	if !ok {
		lvl = xgxlog.DefaultSettings(xgxlog.ProfileRuntime).Level
	}
	return xgxlog.Settings{
		Level:     lvl,
		Timestamp: l.Timestamp,
		NoColor:   l.NoColor,
		JSON:      l.JSON,
	}
}

// Write encodes c as "toml" or "yaml".
func (c Config) Write(w io.Writer, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return xgxexec.Invalid("format", fmt.Sprintf("unsupported format %q", format))
}
