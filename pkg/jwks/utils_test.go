package jwks

import (
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafi/coordinator-keygen/pkg/errors"
)

func TestDecodePrivateKeyFromPEM(t *testing.T) {
	t.Run("PKCS1", func(t *testing.T) {
		kp := testKeyPair(t)
		pkcs1 := pem.EncodeToMemory(&pem.Block{
			Type:  RSAPrivateKeyBlockType,
			Bytes: x509.MarshalPKCS1PrivateKey(kp.PrivateKey),
		})

		decoded, err := DecodePrivateKeyFromPEM(pkcs1)
		require.NoError(t, err)
		assert.True(t, decoded.Equal(kp.PrivateKey))
	})

	t.Run("UnknownBlockType", func(t *testing.T) {
		kp := testKeyPair(t)

		_, err := DecodePrivateKeyFromPEM(kp.PublicPEM)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeKeyFormat))
		assert.Contains(t, err.Error(), "invalid PEM block type")
	})

	t.Run("NotPEM", func(t *testing.T) {
		_, err := DecodePrivateKeyFromPEM([]byte("garbage"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeKeyFormat))
	})
}

func TestEncodeNilKeys(t *testing.T) {
	_, err := EncodePrivateKeyToPEM(nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEncoding))

	_, err = EncodePublicKeyToPEM(nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEncoding))
}

func TestFingerprint(t *testing.T) {
	kp := testKeyPair(t)

	first, err := Fingerprint(kp.PublicKey)
	require.NoError(t, err)
	second, err := Fingerprint(kp.PublicKey)
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.Equal(t, first, second)
}
