package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/datafi/coordinator-keygen/pkg/config"
)

// FormatEnvExports renders the shell exports for the coordinator and edge servers
func FormatEnvExports(result *ProvisionResult, names config.EnvNames) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export %s=%q\n", names.KeyID, result.KeyID)
	fmt.Fprintf(&b, "export %s=%q\n", names.PrivateKey, result.Artifacts.EncodedPrivateKey)
	fmt.Fprintf(&b, "export %s=%q\n", names.JWKS, result.Artifacts.EncodedJWKS)
	return b.String()
}

// PrintProvisionResult displays the provisioning results in a clean, formatted way
func PrintProvisionResult(w io.Writer, result *ProvisionResult, report *WriteReport, names config.EnvNames) {
	if result == nil {
		return
	}

	printSectionHeader(w, "JWT SIGNING KEY GENERATED")
	printKeyInfo(w, result)
	printFiles(w, report)
	printExports(w, result, names)
	printSecurityWarnings(w, report, names)
	printSectionFooter(w)
}

// PrintExports prints only the export lines (quiet mode)
func PrintExports(w io.Writer, result *ProvisionResult, names config.EnvNames) {
	if result == nil {
		return
	}
	fmt.Fprint(w, FormatEnvExports(result, names))
}

// printSectionHeader prints a formatted section header
func printSectionHeader(w io.Writer, title string) {
	border := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\n", border)
	fmt.Fprintf(w, "🔐 %s\n", title)
	fmt.Fprintf(w, "%s\n", border)
}

// printSectionFooter prints a formatted section footer
func printSectionFooter(w io.Writer) {
	border := strings.Repeat("=", 80)
	fmt.Fprintf(w, "%s\n\n", border)
}

func printKeyInfo(w io.Writer, result *ProvisionResult) {
	fmt.Fprintln(w, "\n📋 Key Information:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "  Key ID:      %s\n", result.KeyID)
	fmt.Fprintf(w, "  Algorithm:   %s\n", result.JWKS.Keys[0].Alg)
	fmt.Fprintf(w, "  Key Size:    %d bits\n", result.KeySize)
	fmt.Fprintf(w, "  Fingerprint: %s\n", formatFingerprint(result.Fingerprint))
	if result.SelfChecked {
		fmt.Fprintln(w, "  Self-check:  ✓ probe token signed and verified against the JWKS")
	} else {
		fmt.Fprintln(w, "  Self-check:  skipped")
	}
}

func printFiles(w io.Writer, report *WriteReport) {
	if report == nil || len(report.Files) == 0 {
		return
	}

	fmt.Fprintln(w, "\n📁 Files:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, f := range report.Files {
		fmt.Fprintf(w, "  %-12s %s (%04o)\n", f.Kind, f.Path, f.Mode)
	}
}

func printExports(w io.Writer, result *ProvisionResult, names config.EnvNames) {
	fmt.Fprintln(w, "\n📝 Add these to your env.sh file:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprint(w, FormatEnvExports(result, names))
}

// formatFingerprint formats the fingerprint for display (with colons every 2 chars)
func formatFingerprint(fingerprint string) string {
	if len(fingerprint) < 16 {
		return fingerprint
	}

	// Show first 32 chars (16 bytes) with colons
	end := 32
	if len(fingerprint) < end {
		end = len(fingerprint) &^ 1
	}
	shortened := fingerprint[:end]
	var formatted strings.Builder

	for i := 0; i < len(shortened); i += 2 {
		if i > 0 {
			formatted.WriteString(":")
		}
		formatted.WriteString(shortened[i : i+2])
	}

	if len(fingerprint) > end {
		formatted.WriteString("...")
	}

	return formatted.String()
}

// printSecurityWarnings prints important security warnings
func printSecurityWarnings(w io.Writer, report *WriteReport, names config.EnvNames) {
	fmt.Fprintln(w, "\n⚠️  SECURITY REMINDERS:")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	if report != nil && len(report.Files) > 0 {
		fmt.Fprintln(w, "  • Keep the private key file secure and do not commit it to version control")
		fmt.Fprintln(w, "  • Private key stored with permissions 0600 (owner read/write only)")
		fmt.Fprintln(w, "  • The public key file is the one to share with edge servers")
	}
	fmt.Fprintln(w, "  • The private key is NOT encrypted - protect it in transit and at rest")
	fmt.Fprintf(w, "  • %s carries the signing key - treat it as a secret\n", names.PrivateKey)
	fmt.Fprintf(w, "  • %s is public and goes to every edge server\n", names.JWKS)
}

// LogProvisionSummary logs a concise summary using slog (for structured logging)
func LogProvisionSummary(result *ProvisionResult, report *WriteReport) {
	if result == nil {
		return
	}

	files := 0
	if report != nil {
		files = len(report.Files)
	}

	slog.Info("Key provisioning summary",
		"key_id", result.KeyID,
		"key_size", result.KeySize,
		"algorithm", result.JWKS.Keys[0].Alg,
		"fingerprint", shortFingerprint(result.Fingerprint),
		"self_checked", result.SelfChecked,
		"files_written", files,
	)
}
