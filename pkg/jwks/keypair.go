package jwks

import (
	"crypto/rand"
	"crypto/rsa"
	"io"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// Signing key policy. Changing any of these changes what edge servers must accept.
const (
	KeySize        = 2048
	PublicExponent = 65537
	KeyType        = "RSA"
	KeyUse         = "sig"
	Algorithm      = "RS256"
)

// generateRSAKey is swapped in tests to simulate entropy failures.
var generateRSAKey = rsa.GenerateKey

// GenerateKeyPair generates an RSA key pair under the fixed signing policy and
// serializes it to PEM. A nil random source means crypto/rand.Reader.
func GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}

	privateKey, err := generateRSAKey(random, KeySize)
	if err != nil {
		return nil, errors.KeyGeneration(err, "failed to generate RSA key").
			WithDetail("key_size", KeySize)
	}

	if err := checkKeyPolicy(privateKey); err != nil {
		return nil, err
	}

	privatePEM, err := EncodePrivateKeyToPEM(privateKey)
	if err != nil {
		return nil, err
	}

	publicPEM, err := EncodePublicKeyToPEM(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
		PrivatePEM: privatePEM,
		PublicPEM:  publicPEM,
	}, nil
}

func checkKeyPolicy(privateKey *rsa.PrivateKey) error {
	if privateKey == nil {
		return errors.New(errors.ErrCodeKeyGeneration, "generator returned no key")
	}
	if err := privateKey.Validate(); err != nil {
		return errors.KeyGeneration(err, "generated key failed validation")
	}
	if bits := privateKey.N.BitLen(); bits != KeySize {
		return errors.Newf(errors.ErrCodeKeyGeneration, "generated key has %d bits, expected %d", bits, KeySize)
	}
	if privateKey.E != PublicExponent {
		return errors.Newf(errors.ErrCodeKeyGeneration, "generated key has exponent %d, expected %d", privateKey.E, PublicExponent)
	}
	return nil
}
