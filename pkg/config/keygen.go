package config

import (
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// KeygenConfig holds settings for a provisioning run.
// Key size, exponent and algorithm are not configurable; see the constants in pkg/jwks.
type KeygenConfig struct {
	// Output files
	OutputDir      string `env:"KEYGEN_OUTPUT_DIR" env-default:"."`
	PrivateKeyFile string `env:"KEYGEN_PRIVATE_KEY_FILE" env-default:"jwt-private-key.pem"`
	PublicKeyFile  string `env:"KEYGEN_PUBLIC_KEY_FILE" env-default:"jwt-public-key.pem"`
	JWKSFile       string `env:"KEYGEN_JWKS_FILE" env-default:""`
	EnvFile        string `env:"KEYGEN_ENV_FILE" env-default:""`
	WriteFiles     bool   `env:"KEYGEN_WRITE_FILES" env-default:"true"`
	Force          bool   `env:"KEYGEN_FORCE" env-default:"false"`

	// Verification
	SelfCheck bool `env:"KEYGEN_SELF_CHECK" env-default:"true"`

	// Names of the variables the coordinator and edge servers read
	EnvNames EnvNames

	// Logging
	LogLevel  string `env:"KEYGEN_LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"KEYGEN_LOG_FORMAT" env-default:"text"`
}

// EnvNames are the variable names used when printing or writing exports
type EnvNames struct {
	// KeyID receives the kid (coordinator)
	KeyID string `env:"KEYGEN_KID_ENV_NAME" env-default:"CO_JWT_KID"`

	// PrivateKey receives the base64 private key PEM (coordinator)
	PrivateKey string `env:"KEYGEN_KEY_ENV_NAME" env-default:"CO_JWT_KEY"`

	// JWKS receives the base64 JWKS JSON (edge servers)
	JWKS string `env:"KEYGEN_JWKS_ENV_NAME" env-default:"JWT_JWKS"`
}

// DefaultEnvNames returns the names the coordinator and edge servers expect
func DefaultEnvNames() EnvNames {
	return EnvNames{
		KeyID:      "CO_JWT_KID",
		PrivateKey: "CO_JWT_KEY",
		JWKS:       "JWT_JWKS",
	}
}

// ReadKeygenConfig reads the configuration from the environment without validating it
func ReadKeygenConfig() (KeygenConfig, error) {
	var cfg KeygenConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to read configuration")
	}
	return cfg, nil
}

// LoadKeygenConfig reads the configuration from the environment and validates it
func LoadKeygenConfig() (KeygenConfig, error) {
	cfg, err := ReadKeygenConfig()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks file names, variable names and logging settings
func (c *KeygenConfig) Validate() error {
	err := Validate(
		func() ValidationErrors {
			if !c.WriteFiles {
				return nil
			}
			return CollectErrors(
				RequireNonEmpty("KEYGEN_OUTPUT_DIR", c.OutputDir),
				RequireNonEmpty("KEYGEN_PRIVATE_KEY_FILE", c.PrivateKeyFile),
				RequireNonEmpty("KEYGEN_PUBLIC_KEY_FILE", c.PublicKeyFile),
				WhenSet(c.PrivateKeyFile, func() *ValidationError { return RequireBaseName("KEYGEN_PRIVATE_KEY_FILE", c.PrivateKeyFile) }),
				WhenSet(c.PublicKeyFile, func() *ValidationError { return RequireBaseName("KEYGEN_PUBLIC_KEY_FILE", c.PublicKeyFile) }),
				WhenSet(c.JWKSFile, func() *ValidationError { return RequireBaseName("KEYGEN_JWKS_FILE", c.JWKSFile) }),
				WhenSet(c.EnvFile, func() *ValidationError { return RequireBaseName("KEYGEN_ENV_FILE", c.EnvFile) }),
				RequireDistinct("output files", c.PrivateKeyFile, c.PublicKeyFile, c.JWKSFile, c.EnvFile),
			)
		},
		func() ValidationErrors {
			return CollectErrors(
				RequireEnvName("KEYGEN_KID_ENV_NAME", c.EnvNames.KeyID),
				RequireEnvName("KEYGEN_KEY_ENV_NAME", c.EnvNames.PrivateKey),
				RequireEnvName("KEYGEN_JWKS_ENV_NAME", c.EnvNames.JWKS),
				RequireDistinct("env names", c.EnvNames.KeyID, c.EnvNames.PrivateKey, c.EnvNames.JWKS),
			)
		},
		func() ValidationErrors {
			return CollectErrors(
				RequireOneOf("KEYGEN_LOG_LEVEL", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}),
				RequireOneOf("KEYGEN_LOG_FORMAT", strings.ToLower(c.LogFormat), []string{"text", "json"}),
			)
		},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidConfig, "invalid configuration")
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to info
func (c *KeygenConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
