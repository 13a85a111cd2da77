// Package artifact turns generated key material into strings that can be carried in
// environment configuration, and back.
package artifact

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/datafi/coordinator-keygen/pkg/errors"
	"github.com/datafi/coordinator-keygen/pkg/jwks"
)

// Artifacts holds the encoded values handed to the coordinator and edge servers
type Artifacts struct {
	// Base64 of the private key PEM bytes
	EncodedPrivateKey string

	// Base64 of the compact JSON JWKS document
	EncodedJWKS string
}

// Encode base64-encodes the private key PEM as is, and the JWKS after serializing it
// to compact UTF-8 JSON. Both transforms are lossless.
func Encode(privatePEM []byte, set *jwks.JWKS) (*Artifacts, error) {
	if len(bytes.TrimSpace(privatePEM)) == 0 {
		return nil, errors.Encoding(nil, "private key PEM is empty")
	}
	if set == nil || len(set.Keys) == 0 {
		return nil, errors.Encoding(nil, "JWKS has no keys")
	}

	jwksJSON, err := MarshalJWKS(set)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		EncodedPrivateKey: base64.StdEncoding.EncodeToString(privatePEM),
		EncodedJWKS:       base64.StdEncoding.EncodeToString(jwksJSON),
	}, nil
}

// MarshalJWKS serializes a JWKS to compact JSON
func MarshalJWKS(set *jwks.JWKS) ([]byte, error) {
	data, err := json.Marshal(set)
	if err != nil {
		return nil, errors.Encoding(err, "failed to marshal JWKS")
	}
	return data, nil
}

// DecodePrivateKey reverses the private key encoding, returning the original PEM bytes
func DecodePrivateKey(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Encoding(err, "failed to decode private key")
	}
	return data, nil
}

// DecodeJWKSJSON reverses the base64 step of the JWKS encoding, returning the JSON document
func DecodeJWKSJSON(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Encoding(err, "failed to decode JWKS")
	}
	return data, nil
}

// DecodeJWKS reverses the JWKS encoding
func DecodeJWKS(encoded string) (*jwks.JWKS, error) {
	data, err := DecodeJWKSJSON(encoded)
	if err != nil {
		return nil, err
	}

	var set jwks.JWKS
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, errors.Encoding(err, "failed to parse JWKS JSON")
	}
	return &set, nil
}
