// Package config defines environment-specific settings for WPS Print.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Build variables, injected at compile time
var (
	BuildEnvironment = "local"
	BuildDate        = "unknown"
	BuildTime        = "unknown"
	// ServiceName is used for logging and as part of the log file path.
	ServiceName = "WpsPrint"
	// InstallDir overrides installation discovery when set via ldflags.
	InstallDir = ""
)

// EnvPrefix prefixes every environment variable read by Load, e.g. WPSPRINT_PRINTER.
const EnvPrefix = "WPSPRINT"

// Environment holds environment-specific settings
type Environment struct {
	// Identificación
	Name        string
	ServiceName string

	// Logging
	LogLevel  string
	LogFormat string
	LogToFile bool
	Verbose   bool

	// Impresora
	PrinterCacheTTL time.Duration
}

// LogPath returns the full log file path for this environment.
// Uses the convention: <programData>/<ServiceName>/<ServiceName>.log
func (e Environment) LogPath(programData string) string {
	return filepath.Join(programData, e.ServiceName, e.ServiceName+".log")
}

// environments defines available deployment configurations
var environments = map[string]Environment{
	"prod": {
		Name:            "PRODUCCIÓN",
		ServiceName:     ServiceName,
		LogLevel:        "info",
		LogFormat:       "console",
		LogToFile:       true,
		Verbose:         false,
		PrinterCacheTTL: 30 * time.Second,
	},
	"local": {
		Name:            "LOCAL",
		ServiceName:     ServiceName,
		LogLevel:        "debug",
		LogFormat:       "console",
		LogToFile:       false,
		Verbose:         true,
		PrinterCacheTTL: 5 * time.Second,
	},
}

// GetEnvironment returns config for the specified environment.
func GetEnvironment(env string) Environment {
	cfg, ok := environments[env]
	if !ok {
		log.Printf("[!] Unknown environment '%s', defaulting to 'local'", env)
		cfg = environments["local"]
	}
	return cfg
}

// Settings is the resolved configuration of one invocation
type Settings struct {
	InstallDir  string      `mapstructure:"install_dir"`
	Printer     string      `mapstructure:"printer"`
	PageSize    string      `mapstructure:"page_size"`
	Orientation string      `mapstructure:"orientation"`
	Verbose     bool        `mapstructure:"verbose"`
	Log         LogSettings `mapstructure:"log"`
}

// LogSettings controls the logger
type LogSettings struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
	File   string `mapstructure:"file"`   // empty disables the log file
}

// Load resolves settings: environment defaults, then the TOML file, then
// WPSPRINT_* variables, then any flags already bound to v.
// An explicit configFile must exist; otherwise wpsprint.toml is optional.
func Load(v *viper.Viper, env Environment, configFile string) (Settings, error) {
	logFile := ""
	if env.LogToFile {
		logFile = env.LogPath(os.Getenv("PROGRAMDATA"))
	}

	v.SetDefault("install_dir", InstallDir)
	v.SetDefault("printer", "")
	v.SetDefault("page_size", "")
	v.SetDefault("orientation", "portrait")
	v.SetDefault("verbose", env.Verbose)
	v.SetDefault("log.level", env.LogLevel)
	v.SetDefault("log.format", env.LogFormat)
	v.SetDefault("log.file", logFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(strings.ToLower(env.ServiceName))
		v.AddConfigPath(".")
		if pd := os.Getenv("PROGRAMDATA"); pd != "" {
			v.AddConfigPath(filepath.Join(pd, env.ServiceName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}
