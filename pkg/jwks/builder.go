package jwks

import (
	"strings"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// BuildJWKS parses an SPKI public key PEM and wraps it, tagged with kid, in a
// single-key JWKS for signature verification with RS256.
func BuildJWKS(publicKeyPEM []byte, kid string) (*JWKS, error) {
	if strings.TrimSpace(kid) == "" {
		return nil, errors.InvalidInput("kid", "must not be empty")
	}

	publicKey, err := DecodePublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	keyPair := &KeyPair{PublicKey: publicKey}
	return &JWKS{
		Keys: []JWK{*keyPair.ToJWK(kid)},
	}, nil
}
