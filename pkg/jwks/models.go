package jwks

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// JWKS represents a JSON Web Key Set as defined in RFC 7517
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key as defined in RFC 7517.
// Field order matches the document edge servers expect.
type JWK struct {
	// Key Type - "RSA" for RSA keys
	Kty string `json:"kty"`

	// Key ID - unique identifier for this key
	Kid string `json:"kid"`

	// Public Key Use - "sig" for signature
	Use string `json:"use"`

	// Algorithm - "RS256" for RSA with SHA-256
	Alg string `json:"alg"`

	// RSA public key modulus (base64url encoded)
	N string `json:"n"`

	// RSA public key exponent (base64url encoded)
	E string `json:"e"`
}

// KeyPair holds a generated RSA key pair and its PEM encodings.
// PrivateKey and PrivatePEM must never be logged.
type KeyPair struct {
	// RSA private key
	PrivateKey *rsa.PrivateKey

	// RSA public key (derived from private key)
	PublicKey *rsa.PublicKey

	// PKCS#8 PEM, unencrypted
	PrivatePEM []byte

	// SubjectPublicKeyInfo PEM
	PublicPEM []byte
}

// ToJWK converts a KeyPair to a JWK (public key only)
func (kp *KeyPair) ToJWK(kid string) *JWK {
	return &JWK{
		Kty: KeyType,
		Kid: kid,
		Use: KeyUse,
		Alg: Algorithm,
		N:   EncodeRSAPublicKeyModulus(kp.PublicKey),
		E:   EncodeRSAPublicKeyExponent(kp.PublicKey),
	}
}

// KeyByID returns the key with the given kid
func (s *JWKS) KeyByID(kid string) (*JWK, error) {
	for i := range s.Keys {
		if s.Keys[i].Kid == kid {
			return &s.Keys[i], nil
		}
	}
	return nil, errors.Newf(errors.ErrCodeKeyFormat, "key not found: %s", kid)
}

// PublicKey reconstructs the RSA public key from the n and e members
func (k *JWK) PublicKey() (*rsa.PublicKey, error) {
	if k.Kty != KeyType {
		return nil, errors.Newf(errors.ErrCodeKeyFormat, "unsupported key type: %s", k.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, errors.KeyFormat(err, "failed to decode modulus")
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, errors.KeyFormat(err, "failed to decode exponent")
	}

	e := new(big.Int).SetBytes(eBytes)
	if len(nBytes) == 0 || !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, errors.New(errors.ErrCodeKeyFormat, "invalid RSA modulus or exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}
