package store

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default collection names, in load order.
const (
	SourceReports     = "reportsIndex"
	SourceBloodwork   = "bloodwork"
	SourceBPWeight    = "bpWeight"
	SourceMedications = "medications"
	SourcePatient     = "patient"
)

// DefaultSources returns the fixed ordered list of collections.
func DefaultSources() []string {
	return []string{SourceReports, SourceBloodwork, SourceBPWeight, SourceMedications, SourcePatient}
}

// Config describes where collections are loaded from.
type Config struct {
	// Location is a directory path or an http(s) base URL.
	Location string
	Sources  []string

	HTTPTimeout time.Duration
	HTTPRetries int
}

// SetDefaults registers the store keys on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data", "./data")
	v.SetDefault("sources", DefaultSources())
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.retries", 2)
}

// LoadConfig reads the .medview config file (if any) and environment into the
// global viper instance and returns the store settings.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	SetDefaults(v)
	if v.ConfigFileUsed() == "" {
		v.SetConfigName(".medview") // .yaml is implicit
	}
	v.SetEnvPrefix("MEDVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("MEDVIEW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return ConfigFrom(v), nil
}

// ConfigFrom extracts the store settings from v.
func ConfigFrom(v *viper.Viper) *Config {
	sources := v.GetStringSlice("sources")
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	return &Config{
		Location:    v.GetString("data"),
		Sources:     sources,
		HTTPTimeout: v.GetDuration("http.timeout"),
		HTTPRetries: v.GetInt("http.retries"),
	}
}
