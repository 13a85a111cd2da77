package jwks

import (
	"github.com/google/uuid"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// NewKeyID mints a random (version 4) UUID to identify a freshly generated key.
// Callers must mint a new one for every key pair.
func NewKeyID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.KeyGeneration(err, "failed to generate key ID")
	}
	return id.String(), nil
}

// IsValidKeyID reports whether kid is a canonical 36 character version 4 UUID
func IsValidKeyID(kid string) bool {
	if len(kid) != 36 {
		return false
	}
	id, err := uuid.Parse(kid)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
