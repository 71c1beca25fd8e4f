// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the provider's token cache goes to the OS keychain.
// Every key can be overridden with a FORCEDLOGIN_<KEY> environment variable.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"forcedlogin/cli/internal/xdg"
)

// EnvPrefix is the prefix for environment overrides, e.g. FORCEDLOGIN_CLIENT_ID.
const EnvPrefix = "FORCEDLOGIN"

// Authority modes accepted in the "authority" key.
const (
	AuthorityConsumersAndOrgs = "consumers_and_orgs"
	AuthorityMultiOrg         = "multi_org"
	AuthoritySingleOrg        = "single_org"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	ClientID       string `json:"client_id" mapstructure:"client_id"`
	Authority      string `json:"authority" mapstructure:"authority"`
	Tenant         string `json:"tenant,omitempty" mapstructure:"tenant"`
	IntegratedAuth bool   `json:"integrated_auth" mapstructure:"integrated_auth"`
	RedirectURI    string `json:"redirect_uri" mapstructure:"redirect_uri"`
	LogLevel       string `json:"log_level" mapstructure:"log_level"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Authority:   AuthorityConsumersAndOrgs,
		RedirectURI: "http://localhost",
		LogLevel:    "warn",
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults with env overrides applied.
func Load() (Config, error) {
	return load(true)
}

// LoadFile reads configuration from the file and defaults only, ignoring
// FORCEDLOGIN_* overrides. Use it before Save so overrides are never persisted.
func LoadFile() (Config, error) {
	return load(false)
}

func load(withEnv bool) (Config, error) {
	var c Config
	p, err := Path()
	if err != nil {
		return c, err
	}

	v := viper.New()
	d := Defaults()
	v.SetDefault("client_id", d.ClientID)
	v.SetDefault("authority", d.Authority)
	v.SetDefault("tenant", d.Tenant)
	v.SetDefault("integrated_auth", d.IntegratedAuth)
	v.SetDefault("redirect_uri", d.RedirectURI)
	v.SetDefault("log_level", d.LogLevel)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	if _, err := os.Stat(p); err == nil {
		v.SetConfigFile(p)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Set updates a single key by its file name. Unknown keys are rejected.
func (c *Config) Set(key, value string) error {
	switch key {
	case "client_id":
		c.ClientID = value
	case "authority":
		c.Authority = value
	case "tenant":
		c.Tenant = value
	case "integrated_auth":
		c.IntegratedAuth = value == "true" || value == "1" || value == "yes"
	case "redirect_uri":
		c.RedirectURI = value
	case "log_level":
		c.LogLevel = value
	default:
		return errors.New("unknown config key: " + key)
	}
	return nil
}
