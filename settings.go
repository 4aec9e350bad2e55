package ramjet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"github.com/tfkr-ae/ramjet/core"
	"github.com/tfkr-ae/ramjet/db"
	"github.com/tfkr-ae/ramjet/domain"
	"github.com/tfkr-ae/ramjet/worker"
	"gopkg.in/yaml.v3"
)

const settingsName = "settings"

// settingKeys lists every key Settings.Set accepts.
var settingKeys = []string{
	"database",
	"listen",
	"worker_path",
	"worker_host",
	"bundle_dir",
	"proxy_config",
	"rate_limit",
	"log_level",
	"log_development",
}

// Settings are the application settings of a ramjet process, kept in <dir>/settings.yaml.
// They are separate from the proxy configuration record the controller persists.
type Settings struct {
	viper          *viper.Viper
	Dir            string  `mapstructure:"-"`               // Directory holding settings.yaml
	Database       string  `mapstructure:"database"`        // Path of the local store
	Listen         string  `mapstructure:"listen"`          // Control API listen address
	WorkerPath     string  `mapstructure:"worker_path"`     // Script registered by Init
	WorkerHost     string  `mapstructure:"worker_host"`     // Remote worker host, empty for in-process registration
	BundleDir      string  `mapstructure:"bundle_dir"`      // Directory the configured files are served from, empty to disable
	ProxyConfig    string  `mapstructure:"proxy_config"`    // YAML file holding the partial proxy configuration
	RateLimit      float64 `mapstructure:"rate_limit"`      // Control API requests per second, 0 for unlimited
	LogLevel       string  `mapstructure:"log_level"`       // Minimum log level
	LogDevelopment bool    `mapstructure:"log_development"` // Console logging instead of JSON
}

// LoadSettings reads the settings in dir, creating the directory and a settings file with
// the defaults on first run. Environment variables prefixed with RAMJET_ override the file.
func LoadSettings(dir string) (*Settings, error) {
	_, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			err := os.MkdirAll(dir, 0700)
			if err != nil {
				return nil, fmt.Errorf("creating config dir %s: %w", dir, err)
			}
		} else {
			return nil, fmt.Errorf("checking if directory exists %s: %w", dir, err)
		}
	}

	v := viper.New()
	v.SetConfigName(settingsName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("RAMJET")
	v.AutomaticEnv()

	v.SetDefault("database", filepath.Join(dir, db.StoreName))
	v.SetDefault("listen", "127.0.0.1:1337")
	v.SetDefault("worker_path", "/sw.js")
	v.SetDefault("worker_host", "")
	v.SetDefault("bundle_dir", "")
	v.SetDefault("proxy_config", "")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			err = v.SafeWriteConfig()
			if err != nil {
				return nil, fmt.Errorf("writing settings file : %w", err)
			}
		} else {
			return nil, fmt.Errorf("reading settings file : %w", err)
		}
	}

	settings := &Settings{viper: v, Dir: dir}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshalling settings to struct : %w", err)
	}
	return settings, nil
}

// Set changes a single setting and writes the settings file.
func (s *Settings) Set(key string, value any) error {
	key = strings.ToLower(key)
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("unknown setting %q", key)
	}

	s.viper.Set(key, value)
	if err := s.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := s.viper.Unmarshal(s); err != nil {
		return fmt.Errorf("unmarshalling settings to struct : %w", err)
	}
	return nil
}

// Keys lists the settings Set accepts.
func Keys() []string {
	return slices.Clone(settingKeys)
}

// LogConfig returns the logger configuration the settings describe.
func (s *Settings) LogConfig() core.LogConfig {
	cfg := core.DefaultLogConfig()
	cfg.Level = s.LogLevel
	cfg.Development = s.LogDevelopment
	return cfg
}

// ControllerOptions returns the options wiring the settings into a controller:
// the sqlite store at Database and, when WorkerHost is set, the HTTP worker registrar.
func (s *Settings) ControllerOptions() ([]func(*Controller) error, error) {
	options := []func(*Controller) error{
		WithDatabase(s.Database),
	}

	if s.WorkerHost != "" {
		registrar, err := worker.NewHTTP(s.WorkerHost)
		if err != nil {
			return nil, fmt.Errorf("creating worker registrar : %w", err)
		}
		options = append(options, WithRegistrar(registrar))
	}
	return options, nil
}

// LoadPartial reads a partial proxy configuration from a YAML (or JSON) file.
// An empty path yields an empty partial.
func LoadPartial(path string) (domain.Partial, error) {
	if path == "" {
		return domain.Partial{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading proxy config %s : %w", path, err)
	}

	// Decoding into domain.Partial would give nested mappings the same named type.
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing proxy config %s : %w", path, err)
	}
	return domain.Partial(tree), nil
}
