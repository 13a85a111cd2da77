package jwks

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"math/big"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// PEM block types
const (
	PrivateKeyBlockType    = "PRIVATE KEY"
	RSAPrivateKeyBlockType = "RSA PRIVATE KEY"
	PublicKeyBlockType     = "PUBLIC KEY"
)

// EncodeRSAPublicKeyModulus encodes the RSA public key modulus as base64url
func EncodeRSAPublicKeyModulus(publicKey *rsa.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes())
}

// EncodeRSAPublicKeyExponent encodes the RSA public key exponent as base64url
func EncodeRSAPublicKeyExponent(publicKey *rsa.PublicKey) string {
	exponentBytes := big.NewInt(int64(publicKey.E)).Bytes()
	return base64.RawURLEncoding.EncodeToString(exponentBytes)
}

// EncodePrivateKeyToPEM encodes an RSA private key to unencrypted PKCS#8 PEM
func EncodePrivateKeyToPEM(privateKey *rsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, errors.New(errors.ErrCodeEncoding, "private key is nil")
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, errors.Encoding(err, "failed to marshal PKCS#8 private key")
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  PrivateKeyBlockType,
		Bytes: privateKeyBytes,
	}), nil
}

// EncodePublicKeyToPEM encodes an RSA public key to SubjectPublicKeyInfo PEM
func EncodePublicKeyToPEM(publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, errors.New(errors.ErrCodeEncoding, "public key is nil")
	}

	publicKeyBytes, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, errors.Encoding(err, "failed to marshal public key")
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  PublicKeyBlockType,
		Bytes: publicKeyBytes,
	}), nil
}

// DecodePrivateKeyFromPEM decodes an RSA private key from PEM format
// Supports both PKCS#1 (RSA PRIVATE KEY) and PKCS#8 (PRIVATE KEY) formats
func DecodePrivateKeyFromPEM(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New(errors.ErrCodeKeyFormat, "failed to decode PEM block")
	}

	switch block.Type {
	case RSAPrivateKeyBlockType:
		privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.KeyFormat(err, "failed to parse PKCS#1 private key")
		}
		return privateKey, nil
	case PrivateKeyBlockType:
		parsedKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.KeyFormat(err, "failed to parse PKCS#8 private key")
		}

		privateKey, ok := parsedKey.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New(errors.ErrCodeKeyFormat, "parsed key is not an RSA private key")
		}
		return privateKey, nil
	default:
		return nil, errors.Newf(errors.ErrCodeKeyFormat,
			"invalid PEM block type: %s (expected RSA PRIVATE KEY or PRIVATE KEY)", block.Type)
	}
}

// DecodePublicKeyFromPEM decodes an RSA public key from PEM format
func DecodePublicKeyFromPEM(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New(errors.ErrCodeKeyFormat, "failed to decode PEM block")
	}

	if block.Type != PublicKeyBlockType {
		return nil, errors.Newf(errors.ErrCodeKeyFormat, "invalid PEM block type: %s", block.Type)
	}

	publicKeyInterface, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.KeyFormat(err, "failed to parse public key")
	}

	publicKey, ok := publicKeyInterface.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New(errors.ErrCodeKeyFormat, "key is not an RSA public key")
	}

	return publicKey, nil
}

// Fingerprint returns the hex SHA-256 of the public key's PKIX DER encoding
func Fingerprint(publicKey *rsa.PublicKey) (string, error) {
	pubKeyBytes, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", errors.Encoding(err, "failed to marshal public key for fingerprint")
	}

	hash := sha256.Sum256(pubKeyBytes)
	return hex.EncodeToString(hash[:]), nil
}
