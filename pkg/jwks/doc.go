// Package jwks generates the coordinator's RSA signing key and the JSON Web Key Set
// (RFC 7517) that edge servers use to verify the coordinator's tokens.
//
// # Signing Policy
//
// The policy is fixed and expressed as constants: 2048-bit RSA keys (KeySize) with
// public exponent 65537 (PublicExponent), used for RS256 signatures (Algorithm).
// Every JWK produced here has kty "RSA", use "sig" and alg "RS256", and since the
// exponent never changes its "e" member is always "AQAB".
//
// # Basic Usage
//
//	import "github.com/datafi/coordinator-keygen/pkg/jwks"
//
//	// Generate a key pair (nil means crypto/rand.Reader)
//	keyPair, err := jwks.GenerateKeyPair(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Mint a fresh key ID for this key
//	kid, err := jwks.NewKeyID()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Build the set published to edge servers
//	set, err := jwks.BuildJWKS(keyPair.PublicPEM, kid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # PEM Formats
//
// Private keys are encoded as unencrypted PKCS#8 ("PRIVATE KEY") and public keys as
// SubjectPublicKeyInfo ("PUBLIC KEY"). DecodePrivateKeyFromPEM also accepts PKCS#1
// ("RSA PRIVATE KEY") for keys produced by older tooling.
//
// # Key IDs
//
// A kid is a random version 4 UUID. It is the only thing relying parties use to pick
// a verification key out of a multi-key set during rotation, so it must never be reused
// for a different key.
//
// # Standards Compliance
//
//   - RFC 7517: JSON Web Key (JWK)
//   - RFC 7518: JSON Web Algorithms (JWA), base64url without padding for n and e
//   - RFC 5958 / RFC 5280: PKCS#8 and SubjectPublicKeyInfo
package jwks
