// Package config loads the server configuration from a YAML file and fills
// in defaults for anything left unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/seqforge/dna-codec/pkg/ecc"
)

type Config struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	AuthToken       string `yaml:"authToken"`
	MaxUploadMB     int    `yaml:"maxUploadMB"`
	BaseLength      int    `yaml:"baseLength"`
	ErrorCorrection string `yaml:"errorCorrection"`
	Workers         int    `yaml:"workers"`
	LogLevel        string `yaml:"logLevel"`
}

func Default() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		MaxUploadMB:     32,
		BaseLength:      480,
		ErrorCorrection: "basic",
		LogLevel:        "info",
	}
}

// Load reads the YAML file at path. A missing file is not an error; the
// defaults are returned as-is so the server can run without a config file.
func Load(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return conf, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse config %s: %w", path, err)
	}

	if conf.Host == "" {
		conf.Host = "0.0.0.0"
	}
	if conf.Port == 0 {
		conf.Port = 8080
	}
	if conf.MaxUploadMB == 0 {
		conf.MaxUploadMB = 32
	}
	if conf.BaseLength == 0 {
		conf.BaseLength = 480
	}
	if conf.ErrorCorrection == "" {
		conf.ErrorCorrection = "basic"
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}

	if _, err := ecc.ParseLevel(conf.ErrorCorrection); err != nil {
		return conf, fmt.Errorf("config %s: %w", path, err)
	}
	if conf.Port < 1 || conf.Port > 65535 {
		return conf, fmt.Errorf("config %s: port %d out of range", path, conf.Port)
	}

	return conf, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
