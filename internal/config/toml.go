// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Defaults used when neither the config file nor a flag sets a value.
const (
	DefaultCount     = 10
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz QuizConfig `toml:"quiz"`
	Log  LogConfig  `toml:"log"`
}

// QuizConfig maps quiz-related settings.
type QuizConfig struct {
	Types         []string `toml:"types" validate:"omitempty,min=1,dive,oneof=en-to-jp-mc jp-to-en-mc jp-to-en-typing"`
	Count         *int     `toml:"count" validate:"omitempty,gte=0"`
	TapToContinue *bool    `toml:"tap-to-continue"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format *string `toml:"format" validate:"omitempty,oneof=text json"`
	File   *string `toml:"file"`
}

var validate = validator.New()

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c FileConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config value for %s: %q fails %q", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultTemplate returns the commented config file written by `vocquiz config`.
func DefaultTemplate() string {
	return fmt.Sprintf(`# vocquiz configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# types = ["en-to-jp-mc", "jp-to-en-mc", "jp-to-en-typing"]
# count = %d               # Questions per quiz, 0 asks every word
# tap-to-continue = true   # Wait for a key after a wrong typed answer

[log]
# level = %q           # trace, debug, info, warn, error
# format = %q          # text or json
# file = %q
`,
		DefaultCount,
		DefaultLogLevel,
		DefaultLogFormat,
		DefaultLogPath(),
	)
}
