package bootstrap

import (
	"io"
	"log/slog"
	"time"

	"github.com/datafi/coordinator-keygen/pkg/artifact"
	"github.com/datafi/coordinator-keygen/pkg/errors"
	"github.com/datafi/coordinator-keygen/pkg/jwks"
)

// ProvisionConfig contains configuration for a provisioning run
type ProvisionConfig struct {
	// Secure random source for key generation
	// Default: crypto/rand.Reader
	Random io.Reader

	// Skip the sign/verify round trip over the encoded artifacts
	SkipSelfCheck bool
}

// ProvisionResult contains everything produced by one run
type ProvisionResult struct {
	// The generated key pair and its PEM encodings
	KeyPair *jwks.KeyPair

	// Key ID minted for this key pair
	KeyID string

	// Single-key set published to edge servers
	JWKS *jwks.JWKS

	// Base64 values for environment configuration
	Artifacts *artifact.Artifacts

	// SHA-256 of the public key, hex encoded (display only)
	Fingerprint string

	// Key size in bits
	KeySize int

	// Whether VerifyResult passed
	SelfChecked bool

	CreatedAt time.Time
}

// Provision generates a key pair, mints its key ID, builds the JWKS and encodes the
// artifacts. Either every output is produced consistently or an error is returned.
func Provision(cfg ProvisionConfig) (*ProvisionResult, error) {
	slog.Info("Generating RSA key pair",
		"key_size", jwks.KeySize,
		"algorithm", jwks.Algorithm)

	keyPair, err := jwks.GenerateKeyPair(cfg.Random)
	if err != nil {
		return nil, err
	}

	kid, err := jwks.NewKeyID()
	if err != nil {
		return nil, err
	}

	set, err := jwks.BuildJWKS(keyPair.PublicPEM, kid)
	if err != nil {
		return nil, err
	}

	artifacts, err := artifact.Encode(keyPair.PrivatePEM, set)
	if err != nil {
		return nil, err
	}

	fingerprint, err := jwks.Fingerprint(keyPair.PublicKey)
	if err != nil {
		return nil, err
	}

	result := &ProvisionResult{
		KeyPair:     keyPair,
		KeyID:       kid,
		JWKS:        set,
		Artifacts:   artifacts,
		Fingerprint: fingerprint,
		KeySize:     keyPair.PrivateKey.N.BitLen(),
		CreatedAt:   time.Now().UTC(),
	}

	if cfg.SkipSelfCheck {
		slog.Warn("Self-check skipped - artifacts were not verified")
	} else {
		if err := VerifyResult(result); err != nil {
			return nil, err
		}
		result.SelfChecked = true
	}

	slog.Info("RSA key pair generated successfully",
		"key_id", kid,
		"key_size", result.KeySize,
		"fingerprint", shortFingerprint(fingerprint))

	return result, nil
}

// Validate reports whether the result holds every output of a run
func (r *ProvisionResult) Validate() error {
	if r == nil || r.KeyPair == nil || r.KeyPair.PrivateKey == nil || r.JWKS == nil || r.Artifacts == nil {
		return errors.Verification(nil, "incomplete provisioning result")
	}
	if r.KeyID == "" || len(r.KeyPair.PrivatePEM) == 0 || len(r.KeyPair.PublicPEM) == 0 {
		return errors.Verification(nil, "incomplete provisioning result")
	}
	return nil
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) <= 16 {
		return fingerprint
	}
	return fingerprint[:16] + "..."
}
