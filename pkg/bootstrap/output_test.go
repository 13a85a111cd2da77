package bootstrap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datafi/coordinator-keygen/pkg/config"
)

func TestFormatEnvExports(t *testing.T) {
	result := testResult(t)

	exports := FormatEnvExports(result, config.DefaultEnvNames())
	lines := strings.Split(strings.TrimSuffix(exports, "\n"), "\n")

	assert.Equal(t, []string{
		`export CO_JWT_KID="` + result.KeyID + `"`,
		`export CO_JWT_KEY="` + result.Artifacts.EncodedPrivateKey + `"`,
		`export JWT_JWKS="` + result.Artifacts.EncodedJWKS + `"`,
	}, lines)
}

func TestPrintProvisionResult(t *testing.T) {
	result := testResult(t)
	report := &WriteReport{Files: []WrittenFile{
		{Kind: "private_key", Path: "/keys/jwt-private-key.pem", Mode: PrivateFileMode},
	}}

	var out bytes.Buffer
	PrintProvisionResult(&out, result, report, config.DefaultEnvNames())

	text := out.String()
	assert.Contains(t, text, "JWT SIGNING KEY GENERATED")
	assert.Contains(t, text, result.KeyID)
	assert.Contains(t, text, "2048 bits")
	assert.Contains(t, text, "/keys/jwt-private-key.pem (0600)")
	assert.Contains(t, text, "Add these to your env.sh file:")
	assert.Contains(t, text, FormatEnvExports(result, config.DefaultEnvNames()))
	assert.Contains(t, text, "NOT encrypted")
	assert.NotContains(t, text, "BEGIN PRIVATE KEY")
}

func TestPrintExports(t *testing.T) {
	result := testResult(t)

	var out bytes.Buffer
	PrintExports(&out, result, config.DefaultEnvNames())
	assert.Equal(t, FormatEnvExports(result, config.DefaultEnvNames()), out.String())

	out.Reset()
	PrintExports(&out, nil, config.DefaultEnvNames())
	assert.Empty(t, out.String())
}

func TestFormatFingerprint(t *testing.T) {
	assert.Equal(t, "short", formatFingerprint("short"))
	assert.Equal(t,
		"00:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff...",
		formatFingerprint("00112233445566778899aabbccddeeff0123"))
	assert.Equal(t,
		"00:11:22:33:44:55:66:77:88",
		formatFingerprint("001122334455667788"))
}
