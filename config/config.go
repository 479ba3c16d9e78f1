// Package config resolves settings from defaults, an optional pillow.toml,
// PILLOW_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pes18fan/pillow/game"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const AppName = "pillow"

const (
	KeyWarmup       = "warmup"
	KeyInterruptMin = "interrupt.min"
	KeyInterruptMax = "interrupt.max"
	KeyPoll         = "poll"
	KeyThemeDark    = "theme.dark"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
)

var ErrInvalid = errors.New("invalid configuration")

// EnvKeyReplacer turns config keys into environment variable names,
// so interrupt.min is read from PILLOW_INTERRUPT_MIN.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Defaults holds the value of every key when nothing overrides it.
var Defaults = map[string]any{
	KeyWarmup:       game.DefaultWarmup,
	KeyInterruptMin: game.DefaultMinInterrupt,
	KeyInterruptMax: game.DefaultMaxInterrupt,
	KeyPoll:         game.DefaultPollInterval,
	KeyThemeDark:    false,
	KeyLogLevel:     "debug",
	KeyLogFile:      "debug.log",
}

// Dir returns the directory pillow.toml is looked up in.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, AppName)
}

// Setup prepares the global viper instance. A missing config file is not
// an error.
func Setup(fs afero.Fs, dirs ...string) error {
	viper.SetConfigName(AppName)
	viper.SetConfigType("toml")
	viper.SetFs(fs)
	if len(dirs) == 0 {
		dirs = []string{Dir()}
	}
	for _, dir := range dirs {
		viper.AddConfigPath(dir)
	}

	viper.SetEnvPrefix(AppName)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	for key, value := range Defaults {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Settings returns the game settings, validated.
func Settings() (game.Settings, error) {
	s := game.Settings{
		Warmup:       viper.GetDuration(KeyWarmup),
		MinInterrupt: viper.GetDuration(KeyInterruptMin),
		MaxInterrupt: viper.GetDuration(KeyInterruptMax),
		PollInterval: viper.GetDuration(KeyPoll),
	}

	for key, d := range map[string]time.Duration{
		KeyWarmup:       s.Warmup,
		KeyInterruptMin: s.MinInterrupt,
		KeyInterruptMax: s.MaxInterrupt,
		KeyPoll:         s.PollInterval,
	} {
		if d <= 0 {
			return game.Settings{}, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, key, d)
		}
	}
	if s.MinInterrupt >= s.MaxInterrupt {
		return game.Settings{}, fmt.Errorf("%w: %s (%v) must be less than %s (%v)",
			ErrInvalid, KeyInterruptMin, s.MinInterrupt, KeyInterruptMax, s.MaxInterrupt)
	}
	return s, nil
}

func DarkTheme() bool {
	return viper.GetBool(KeyThemeDark)
}
