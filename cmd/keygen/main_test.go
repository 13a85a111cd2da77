package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafi/coordinator-keygen/pkg/artifact"
	"github.com/datafi/coordinator-keygen/pkg/config"
	"github.com/datafi/coordinator-keygen/pkg/errors"
	"github.com/datafi/coordinator-keygen/pkg/jwks"
)

// parseExports reads `export NAME="value"` lines
func parseExports(t *testing.T, out string) map[string]string {
	t.Helper()
	values := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "export ") {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		require.True(t, ok, line)
		values[name] = strings.Trim(value, `"`)
	}
	return values
}

func TestRun(t *testing.T) {
	t.Run("WritesFilesAndPrintsExports", func(t *testing.T) {
		dir := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := run([]string{"-out", dir, "-jwks-file", "jwks.json"}, &stdout, &stderr)
		require.NoError(t, err)

		exports := parseExports(t, stdout.String())
		require.Len(t, exports, 3)
		kid := exports["CO_JWT_KID"]
		assert.True(t, jwks.IsValidKeyID(kid))

		privatePEM, err := base64.StdEncoding.DecodeString(exports["CO_JWT_KEY"])
		require.NoError(t, err)
		onDisk, err := os.ReadFile(filepath.Join(dir, "jwt-private-key.pem"))
		require.NoError(t, err)
		assert.Equal(t, onDisk, privatePEM)

		set, err := artifact.DecodeJWKS(exports["JWT_JWKS"])
		require.NoError(t, err)
		require.Len(t, set.Keys, 1)
		assert.Equal(t, kid, set.Keys[0].Kid)

		publicPEM, err := os.ReadFile(filepath.Join(dir, "jwt-public-key.pem"))
		require.NoError(t, err)
		rebuilt, err := jwks.BuildJWKS(publicPEM, kid)
		require.NoError(t, err)
		assert.Equal(t, rebuilt, set)

		assert.FileExists(t, filepath.Join(dir, "jwks.json"))
	})

	t.Run("QuietNoFiles", func(t *testing.T) {
		dir := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := run([]string{"-out", dir, "-no-files", "-quiet"}, &stdout, &stderr)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Len(t, lines, 3)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "export "), line)
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("CustomEnvNames", func(t *testing.T) {
		t.Setenv("KEYGEN_KID_ENV_NAME", "JWT_KID")
		t.Setenv("KEYGEN_KEY_ENV_NAME", "JWT_KEY")
		var stdout, stderr bytes.Buffer

		err := run([]string{"-no-files", "-quiet"}, &stdout, &stderr)
		require.NoError(t, err)

		exports := parseExports(t, stdout.String())
		assert.Contains(t, exports, "JWT_KID")
		assert.Contains(t, exports, "JWT_KEY")
		assert.Contains(t, exports, "JWT_JWKS")
	})

	t.Run("ExistingFilesAbortWithoutOutput", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt-private-key.pem"), []byte("existing"), 0600))
		var stdout, stderr bytes.Buffer

		err := run([]string{"-out", dir}, &stdout, &stderr)
		require.Error(t, err)
		assert.Equal(t, errors.ExitOutput, errors.ExitCode(err))
		assert.Empty(t, stdout.String())
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Setenv("KEYGEN_LOG_LEVEL", "loud")
		var stdout, stderr bytes.Buffer

		err := run([]string{"-no-files"}, &stdout, &stderr)
		require.Error(t, err)
		assert.Equal(t, errors.ExitInvalidConfig, errors.ExitCode(err))
		assert.Empty(t, stdout.String())
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run([]string{"-bits", "4096"}, &stdout, &stderr)
		require.Error(t, err)
		assert.Equal(t, errors.ExitInvalidConfig, errors.ExitCode(err))
	})

	t.Run("Help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run([]string{"-h"}, &stdout, &stderr)
		assert.ErrorIs(t, err, flag.ErrHelp)
	})
}

func TestReportError(t *testing.T) {
	t.Run("WithHint", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt-private-key.pem"), []byte("existing"), 0600))
		var stdout, stderr bytes.Buffer
		err := run([]string{"-out", dir}, &stdout, &stderr)
		require.Error(t, err)

		var out bytes.Buffer
		reportError(&out, err)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Error: [ALREADY_EXISTS]"), lines[0])
		assert.Equal(t, "Hint: use -force or KEYGEN_FORCE=true to overwrite", lines[1])
	})

	t.Run("WithoutHint", func(t *testing.T) {
		var out bytes.Buffer
		reportError(&out, errors.InvalidConfig("arguments", "unexpected \"x\""))
		assert.Equal(t, "Error: [INVALID_CONFIG] invalid arguments: unexpected \"x\"\n", out.String())
	})

	t.Run("Unstructured", func(t *testing.T) {
		var out bytes.Buffer
		reportError(&out, fmt.Errorf("boom"))
		assert.Equal(t, "Error: boom\n", out.String())
	})
}

func TestApplyFlags(t *testing.T) {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.outputDir, "out", "", "")
	fs.BoolVar(&opts.noFiles, "no-files", false, "")
	fs.BoolVar(&opts.skipSelfCheck, "skip-self-check", false, "")
	fs.StringVar(&opts.jwksFile, "jwks-file", "", "")
	require.NoError(t, fs.Parse([]string{"-out", "/tmp/keys", "-skip-self-check"}))

	cfg := config.KeygenConfig{OutputDir: ".", WriteFiles: true, SelfCheck: true, JWKSFile: "from-env.json"}
	applyFlags(fs, opts, &cfg)

	assert.Equal(t, "/tmp/keys", cfg.OutputDir)
	assert.False(t, cfg.SelfCheck)
	assert.True(t, cfg.WriteFiles)
	assert.Equal(t, "from-env.json", cfg.JWKSFile)
}
