// Package config loads and validates the settings of a keygen run.
//
// Configuration comes from environment variables (read with cleanenv), optionally
// seeded from a .env file (see LoadEnvFile). Command line flags in cmd/keygen are
// applied on top of the loaded struct.
//
// # Environment Variables
//
//	KEYGEN_OUTPUT_DIR=.                          directory receiving the files
//	KEYGEN_PRIVATE_KEY_FILE=jwt-private-key.pem  PKCS#8 private key (0600)
//	KEYGEN_PUBLIC_KEY_FILE=jwt-public-key.pem    SubjectPublicKeyInfo public key
//	KEYGEN_JWKS_FILE=                            optional pretty-printed JWKS document
//	KEYGEN_ENV_FILE=                             optional env.sh with the exports
//	KEYGEN_WRITE_FILES=true                      false prints the exports only
//	KEYGEN_FORCE=false                           overwrite existing files
//	KEYGEN_SELF_CHECK=true                       sign and verify a probe token before output
//	KEYGEN_KID_ENV_NAME=CO_JWT_KID
//	KEYGEN_KEY_ENV_NAME=CO_JWT_KEY
//	KEYGEN_JWKS_ENV_NAME=JWT_JWKS
//	KEYGEN_LOG_LEVEL=info                        debug, info, warn, error
//	KEYGEN_LOG_FORMAT=text                       text or json
//
// # Usage
//
//	config.LoadEnvFile()
//	cfg, err := config.LoadKeygenConfig()
//	if err != nil {
//	    slog.Error("Failed to read configuration", "error", err)
//	    os.Exit(errors.ExitCode(err))
//	}
//
// # Validation
//
// Validators return *ValidationError values that are collected into ValidationErrors,
// so every problem is reported at once:
//
//	err := config.Validate(func() config.ValidationErrors {
//	    return config.CollectErrors(
//	        config.RequireNonEmpty("KEYGEN_OUTPUT_DIR", cfg.OutputDir),
//	        config.WhenSet(cfg.JWKSFile, func() *config.ValidationError {
//	            return config.RequireBaseName("KEYGEN_JWKS_FILE", cfg.JWKSFile)
//	        }),
//	    )
//	})
package config
