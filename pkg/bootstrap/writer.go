package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/datafi/coordinator-keygen/pkg/config"
	"github.com/datafi/coordinator-keygen/pkg/errors"
)

// File permissions for written artifacts
const (
	PrivateFileMode os.FileMode = 0600
	PublicFileMode  os.FileMode = 0644
)

// OutputConfig contains configuration for persisting a provisioning result
type OutputConfig struct {
	// Directory receiving the files, created if missing
	Dir string

	// File names inside Dir. JWKSFile and EnvFile are optional.
	PrivateKeyFile string
	PublicKeyFile  string
	JWKSFile       string
	EnvFile        string

	// Overwrite existing files
	Force bool

	// Variable names used in EnvFile
	EnvNames config.EnvNames
}

// NewOutputConfig builds an OutputConfig from the loaded keygen configuration
func NewOutputConfig(cfg config.KeygenConfig) OutputConfig {
	return OutputConfig{
		Dir:            cfg.OutputDir,
		PrivateKeyFile: cfg.PrivateKeyFile,
		PublicKeyFile:  cfg.PublicKeyFile,
		JWKSFile:       cfg.JWKSFile,
		EnvFile:        cfg.EnvFile,
		Force:          cfg.Force,
		EnvNames:       cfg.EnvNames,
	}
}

// WrittenFile describes one persisted artifact
type WrittenFile struct {
	Kind string
	Path string
	Mode os.FileMode
}

// WriteReport lists the files written by WriteArtifacts
type WriteReport struct {
	Dir   string
	Files []WrittenFile
}

type pendingFile struct {
	WrittenFile
	data       []byte
	tmpPath    string
	backupPath string
	committed  bool
}

// WriteArtifacts persists the result. Every file is staged next to its destination
// and renamed into place only once all of them were staged. Files being replaced are
// moved aside first, so a failure restores the previous set instead of leaving a
// partial one behind.
func WriteArtifacts(result *ProvisionResult, cfg OutputConfig) (*WriteReport, error) {
	if err := result.Validate(); err != nil {
		return nil, err
	}

	dir, err := resolveOutputDir(cfg.Dir)
	if err != nil {
		return nil, err
	}

	files, err := buildPendingFiles(result, cfg, dir)
	if err != nil {
		return nil, err
	}

	if !cfg.Force {
		for _, f := range files {
			if _, err := os.Lstat(f.Path); err == nil {
				return nil, errors.AlreadyExists("file", f.Path).
					WithDetail("hint", "use -force or KEYGEN_FORCE=true to overwrite")
			}
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Output(err, "failed to create output directory").WithDetail("path", dir)
	}

	for i := range files {
		if err := stageFile(dir, &files[i]); err != nil {
			removeStaged(files)
			return nil, err
		}
	}

	if err := commitStaged(dir, files); err != nil {
		return nil, err
	}

	report := &WriteReport{Dir: dir}
	for _, f := range files {
		slog.Info("Artifact written", "kind", f.Kind, "path", f.Path, "mode", fmt.Sprintf("%04o", f.Mode))
		report.Files = append(report.Files, f.WrittenFile)
	}
	return report, nil
}

// resolveOutputDir resolves the output directory to an absolute path
func resolveOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Output(err, "failed to get working directory")
	}
	return filepath.Join(cwd, dir), nil
}

func buildPendingFiles(result *ProvisionResult, cfg OutputConfig, dir string) ([]pendingFile, error) {
	if cfg.PrivateKeyFile == "" || cfg.PublicKeyFile == "" {
		return nil, errors.InvalidInput("output files", "private and public key file names are required")
	}

	files := []pendingFile{
		{WrittenFile: WrittenFile{Kind: "private_key", Path: filepath.Join(dir, cfg.PrivateKeyFile), Mode: PrivateFileMode}, data: result.KeyPair.PrivatePEM},
		{WrittenFile: WrittenFile{Kind: "public_key", Path: filepath.Join(dir, cfg.PublicKeyFile), Mode: PublicFileMode}, data: result.KeyPair.PublicPEM},
	}

	if cfg.JWKSFile != "" {
		document, err := json.MarshalIndent(result.JWKS, "", "  ")
		if err != nil {
			return nil, errors.Encoding(err, "failed to marshal JWKS")
		}
		files = append(files, pendingFile{
			WrittenFile: WrittenFile{Kind: "jwks", Path: filepath.Join(dir, cfg.JWKSFile), Mode: PublicFileMode},
			data:        append(document, '\n'),
		})
	}

	if cfg.EnvFile != "" {
		files = append(files, pendingFile{
			WrittenFile: WrittenFile{Kind: "env", Path: filepath.Join(dir, cfg.EnvFile), Mode: PrivateFileMode},
			data:        []byte(FormatEnvExports(result, cfg.EnvNames)),
		})
	}

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := seen[f.Path]; dup {
			return nil, errors.InvalidInput("output files", "file names must be distinct").WithDetail("path", f.Path)
		}
		seen[f.Path] = struct{}{}
	}

	return files, nil
}

// stageFile writes data to a temp file in dir with the final permissions
func stageFile(dir string, f *pendingFile) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return errors.Output(err, "failed to create temp file").WithDetail("path", f.Path)
	}
	f.tmpPath = tmp.Name()
	defer func() {
		if cerr := tmp.Close(); cerr != nil && err == nil {
			err = errors.Output(cerr, "failed to close file").WithDetail("path", f.Path)
		}
	}()

	if err := tmp.Chmod(f.Mode); err != nil {
		return errors.Output(err, "failed to set file permissions").WithDetail("path", f.Path)
	}
	if _, err := tmp.Write(f.data); err != nil {
		return errors.Output(err, "failed to write file").WithDetail("path", f.Path)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Output(err, "failed to sync file").WithDetail("path", f.Path)
	}
	return nil
}

// commitStaged renames every staged file into place. An existing target is moved to a
// backup first. If any step fails the backups are restored.
func commitStaged(dir string, files []pendingFile) error {
	for i := range files {
		f := &files[i]

		if err := moveAside(dir, f); err != nil {
			rollback(files)
			return err
		}

		if err := os.Rename(f.tmpPath, f.Path); err != nil {
			rollback(files)
			return errors.Output(err, "failed to move file into place").WithDetail("path", f.Path)
		}
		f.tmpPath = ""
		f.committed = true
	}

	for _, f := range files {
		if f.backupPath == "" {
			continue
		}
		if err := os.Remove(f.backupPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove backup of replaced artifact", "path", f.backupPath, "error", err)
		}
	}
	return nil
}

// moveAside renames an existing target to a unique backup name in dir
func moveAside(dir string, f *pendingFile) error {
	if _, err := os.Lstat(f.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Output(err, "failed to inspect existing file").WithDetail("path", f.Path)
	}

	placeholder, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".bak-*")
	if err != nil {
		return errors.Output(err, "failed to reserve backup file").WithDetail("path", f.Path)
	}
	backup := placeholder.Name()
	placeholder.Close()

	if err := os.Rename(f.Path, backup); err != nil {
		os.Remove(backup)
		return errors.Output(err, "failed to back up existing file").WithDetail("path", f.Path)
	}
	f.backupPath = backup
	slog.Debug("Existing artifact moved aside", "path", f.Path, "backup", backup)
	return nil
}

// rollback undoes commitStaged in reverse order and restores every backup
func rollback(files []pendingFile) {
	for i := len(files) - 1; i >= 0; i-- {
		f := &files[i]
		if f.committed {
			if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove partially written artifact", "path", f.Path, "error", err)
			}
			f.committed = false
		}
		if f.backupPath != "" {
			if err := os.Rename(f.backupPath, f.Path); err != nil {
				slog.Error("Failed to restore replaced artifact", "path", f.Path, "backup", f.backupPath, "error", err)
			} else {
				f.backupPath = ""
			}
		}
	}
	removeStaged(files)
}

func removeStaged(files []pendingFile) {
	for _, f := range files {
		if f.tmpPath == "" {
			continue
		}
		if err := os.Remove(f.tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temp file", "path", f.tmpPath, "error", err)
		}
	}
}
