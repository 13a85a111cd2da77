package bootstrap

import (
	"bytes"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/datafi/coordinator-keygen/pkg/artifact"
	"github.com/datafi/coordinator-keygen/pkg/errors"
	"github.com/datafi/coordinator-keygen/pkg/jwks"
)

const probeSubject = "coordinator-keygen-self-check"

// VerifyResult decodes the encoded artifacts the way the coordinator and an edge
// server would, then signs a probe token with the decoded private key and verifies
// it against the decoded JWKS.
func VerifyResult(result *ProvisionResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	privateKey, err := decodeSigningKey(result)
	if err != nil {
		return err
	}

	keySet, err := decodeKeySet(result)
	if err != nil {
		return err
	}

	signed, err := signProbe(privateKey, result.KeyID)
	if err != nil {
		return err
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid in token header")
		}
		return lookupPublicKey(keySet, kid)
	}, jwt.WithValidMethods([]string{jwks.Algorithm}), jwt.WithSubject(probeSubject))
	if err != nil {
		return errors.Verification(err, "probe token did not verify against the JWKS")
	}
	if !token.Valid {
		return errors.Verification(nil, "probe token is not valid")
	}

	slog.Debug("Self-check passed", "key_id", result.KeyID)
	return nil
}

// decodeSigningKey returns the key the coordinator would load from the encoded private key
func decodeSigningKey(result *ProvisionResult) (*rsa.PrivateKey, error) {
	privatePEM, err := artifact.DecodePrivateKey(result.Artifacts.EncodedPrivateKey)
	if err != nil {
		return nil, errors.Verification(err, "encoded private key does not decode")
	}
	if !bytes.Equal(privatePEM, result.KeyPair.PrivatePEM) {
		return nil, errors.Verification(nil, "encoded private key differs from the generated PEM")
	}

	privateKey, err := jwks.DecodePrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, errors.Verification(err, "encoded private key does not parse")
	}
	if !privateKey.Equal(result.KeyPair.PrivateKey) {
		return nil, errors.Verification(nil, "encoded private key differs from the generated key")
	}
	return privateKey, nil
}

// decodeKeySet returns the set an edge server would load from the encoded JWKS
func decodeKeySet(result *ProvisionResult) (jwk.Set, error) {
	document, err := artifact.DecodeJWKSJSON(result.Artifacts.EncodedJWKS)
	if err != nil {
		return nil, errors.Verification(err, "encoded JWKS does not decode")
	}

	keySet, err := jwk.Parse(document)
	if err != nil {
		return nil, errors.Verification(err, "encoded JWKS does not parse")
	}

	key, ok := keySet.LookupKeyID(result.KeyID)
	if !ok {
		return nil, errors.Verification(nil, "encoded JWKS has no key for the key ID").
			WithDetail("key_id", result.KeyID)
	}
	if key.KeyType() != jwa.RSA {
		return nil, errors.Verification(nil, fmt.Sprintf("unexpected key type %q", key.KeyType()))
	}
	if key.Algorithm().String() != jwks.Algorithm {
		return nil, errors.Verification(nil, fmt.Sprintf("unexpected algorithm %q", key.Algorithm()))
	}
	if key.KeyUsage() != jwks.KeyUse {
		return nil, errors.Verification(nil, fmt.Sprintf("unexpected key use %q", key.KeyUsage()))
	}

	publicKey, err := lookupPublicKey(keySet, result.KeyID)
	if err != nil {
		return nil, errors.Verification(err, "encoded JWKS key is unusable")
	}
	if !publicKey.Equal(result.KeyPair.PublicKey) {
		return nil, errors.Verification(nil, "JWKS key does not match the generated public key")
	}

	return keySet, nil
}

func lookupPublicKey(keySet jwk.Set, kid string) (*rsa.PublicKey, error) {
	key, ok := keySet.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("key not found: %s", kid)
	}

	var publicKey rsa.PublicKey
	if err := key.Raw(&publicKey); err != nil {
		return nil, fmt.Errorf("failed to extract RSA public key: %w", err)
	}
	return &publicKey, nil
}

func signProbe(privateKey *rsa.PrivateKey, kid string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   probeSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	})
	token.Header["kid"] = kid

	signed, err := token.SignedString(privateKey)
	if err != nil {
		return "", errors.Verification(err, "failed to sign probe token")
	}
	return signed, nil
}
