// Package config loads run settings from YAML or TOML files and sets up
// logging.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/arithjit/core"
)

// DefaultScript is the script run when none is given.
const DefaultScript = "code.txt"

// ErrUnknownFormat is returned for configuration files that are neither YAML
// nor TOML.
var ErrUnknownFormat = errors.New("unknown configuration format")

var levels = map[string]slog.Level{
	"trace": core.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds the settings of one run.
type Config struct {
	Script           string `yaml:"script" toml:"script"`
	LogLevel         string `yaml:"log_level" toml:"log_level"`
	LogFormat        string `yaml:"log_format" toml:"log_format"`
	StrictWhitespace bool   `yaml:"strict_whitespace" toml:"strict_whitespace"`
	EmitIR           string `yaml:"emit_ir" toml:"emit_ir"`
	Stats            bool   `yaml:"stats" toml:"stats"`
	Verify           bool   `yaml:"verify" toml:"verify"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Script:    DefaultScript,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads the file at path on top of the defaults. The format follows the
// extension: .yaml and .yml for YAML, .toml for TOML. Unknown keys are errors.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &c)
	case ".toml":
		err = decodeTOML(data, &c)
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err != nil {
		return c, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return c, nil
}

func decodeYAML(data []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(c)
	if errors.Is(err, io.EOF) {
		// Empty document.
		return nil
	}

	return err
}

func decodeTOML(data []byte, c *Config) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)

		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return nil
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	if c.Script == "" {
		return errors.New("script must not be empty")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q, want text or json", c.LogFormat)
	}

	return nil
}

// ParseLevel maps a level name to its slog level. Besides the slog levels,
// "trace" enables per-instruction events.
func ParseLevel(name string) (slog.Level, error) {
	l, ok := levels[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q, want trace, debug, info, warn or error", name)
	}

	return l, nil
}

// NewLogger creates a logger writing to w in the configured format, at the
// configured level.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == core.LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}

			return a
		},
	}

	switch c.LogFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q, want text or json", c.LogFormat)
	}
}
