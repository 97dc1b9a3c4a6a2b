package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the seed file. Data that is easier to
// manage in YAML than env vars: canned responses, starter catalog and staff
// accounts created on first boot.
type YAMLConfig struct {
	Responses []ResponseConfig `yaml:"responses"`
	Products  []ProductConfig  `yaml:"products"`
	Users     []UserConfig     `yaml:"users"`
}

// ResponseConfig defines an automated response. Order in the file is the order
// the resolver visits candidates.
type ResponseConfig struct {
	Keywords  []string `yaml:"keywords"`
	Text      string   `yaml:"text"`
	IsDefault bool     `yaml:"default,omitempty"`
}

// ProductConfig defines a catalog product.
type ProductConfig struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Price          float64  `yaml:"price"`
	Specifications []string `yaml:"specifications,omitempty"`
}

// UserConfig defines a bootstrap account.
type UserConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"` // may reference an env var as ${VAR}
}

// LoadYAMLConfig loads the seed file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the seed file at path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Seed file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Users {
		cfg.Users[i].Password = os.ExpandEnv(cfg.Users[i].Password)
		if cfg.Users[i].Role == "" {
			cfg.Users[i].Role = "admin"
		}
	}

	return &cfg, nil
}

// DefaultResponse returns the first response marked default, or nil.
func (c *YAMLConfig) DefaultResponse() *ResponseConfig {
	if c == nil {
		return nil
	}
	for i := range c.Responses {
		if c.Responses[i].IsDefault {
			return &c.Responses[i]
		}
	}
	return nil
}
