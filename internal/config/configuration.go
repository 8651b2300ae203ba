package config

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// Configuration is the process-wide static configuration, loaded once at
// startup from file and environment. The active engine selection is NOT
// part of it; that lives in the engine config store and is mutable at
// runtime.
type Configuration struct {
	Server   Server    `mapstructure:"server"`
	Data     Data      `mapstructure:"data"`
	Replicas []Replica `mapstructure:"replicas"`

	LogLevel  string `mapstructure:"logLevel" default:"info"`
	LogFormat string `mapstructure:"logFormat" default:"text"`

	Version     string `mapstructure:"version" default:"v0.0.0"`
	Environment string `mapstructure:"environment" default:"production"`
}

type Server struct {
	// ServerMode is "prod" or "dev"
	ServerMode    string `mapstructure:"mode" default:"dev"`
	HTTPPort      int    `mapstructure:"httpPort" default:"8000"`
	StaticsFolder string `mapstructure:"staticsFolder" default:""`
}

type Data struct {
	// DataFolder holds the engine config file, the install marker and the
	// default sqlite database
	DataFolder   string `mapstructure:"dataFolder" default:"data"`
	BackupFolder string `mapstructure:"backupFolder" default:"backups"`
	// NumWorkers sizes the pool for migrate/sync jobs
	NumWorkers int `mapstructure:"numWorkers" default:"2"`
}

// Replica describes one secondary document-store server kept in sync with
// the primary.
type Replica struct {
	Name     string `mapstructure:"name"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" default:"27017"`
	Database string `mapstructure:"database"`
}

// Load reads the configuration file (optional) and environment overrides
// into a Configuration with defaults applied.
func Load(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DATASTORE")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	// struct defaults run before unmarshal, so slice elements need their own
	// pass
	for i := range cfg.Replicas {
		if err := defaults.Set(&cfg.Replicas[i]); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) Validate() error {
	if c.Server.ServerMode != "dev" && c.Server.ServerMode != "prod" {
		return fmt.Errorf("invalid server mode: %s", c.Server.ServerMode)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}
	for _, r := range c.Replicas {
		if r.Host == "" || r.Database == "" {
			return fmt.Errorf("replica %q needs host and database", r.Name)
		}
	}
	return nil
}
