// Package errors provides structured error handling with error codes for coordinator-keygen.
//
// Every failure in the provisioning pipeline is reported as an *Error carrying a typed
// ErrorCode, so the CLI can print a clear diagnostic and exit with a status that tells
// the operator which stage failed.
//
// # Basic Usage
//
//	import "github.com/datafi/coordinator-keygen/pkg/errors"
//
//	// Create a simple error
//	err := errors.New(errors.ErrCodeKeyFormat, "public key is not RSA")
//
//	// Wrap an existing error
//	err := errors.KeyGeneration(randErr, "failed to generate RSA key")
//
//	// Add structured details
//	err := errors.InvalidConfig("private key file", "must not be empty").
//		WithDetail("env", "KEYGEN_PRIVATE_KEY_FILE")
//
// # Error Codes
//
// Key material:
//   - ErrCodeKeyGeneration: entropy or parameter failure while generating keys or the kid
//   - ErrCodeKeyFormat: PEM that cannot be parsed, or a key that is not RSA
//   - ErrCodeEncoding: base64/JSON serialization failures
//   - ErrCodeVerification: the emitted artifacts do not agree with each other
//
// Generic:
//   - ErrCodeInvalidInput, ErrCodeInvalidConfig
//   - ErrCodeAlreadyExists, ErrCodeOutput
//   - ErrCodeInternal
//
// # Error Inspection
//
//	if errors.IsCode(err, errors.ErrCodeKeyFormat) {
//		// Handle malformed key
//	}
//
//	code := errors.GetCode(err)
//	details := errors.GetDetails(err)
//
// # Exit Code Mapping
//
// ExitCode maps any error to a process exit status:
//   - nil → 0
//   - ErrCodeInvalidInput, ErrCodeInvalidConfig → 2
//   - ErrCodeKeyGeneration → 3
//   - ErrCodeKeyFormat → 4
//   - ErrCodeEncoding → 5
//   - ErrCodeVerification → 6
//   - ErrCodeOutput, ErrCodeAlreadyExists → 7
//   - anything else → 1
//
//	if err := run(); err != nil {
//		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//		os.Exit(errors.ExitCode(err))
//	}
package errors
