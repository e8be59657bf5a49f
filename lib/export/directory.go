// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/parkir/lib/output"
)

// ShareTitle is passed to the share command.
const ShareTitle = "Tiket Parkir - Pilih Printer atau Simpan"

// DirectoryExporter writes ticket PDFs into Directory.
type DirectoryExporter struct {
	Directory string

	// ShareCommand, when set, is run after the file is written with
	// the title and the file path as its last two arguments. A share
	// failure is logged; the export still counts as done.
	ShareCommand []string

	Logger *slog.Logger
}

// FileName is the export file name for an artifact.
func FileName(artifact *output.Artifact) string {
	return "tiket-" + sanitize(artifact.Document.TicketNumber) + "-" + artifact.ShortID() + ".pdf"
}

// Export writes the artifact and returns its path.
func (e *DirectoryExporter) Export(ctx context.Context, artifact *output.Artifact) (string, error) {
	if e.Directory == "" {
		return "", fmt.Errorf("export directory is not configured")
	}
	data, err := artifact.PDF()
	if err != nil {
		return "", fmt.Errorf("rendering PDF: %w", err)
	}
	if err := os.MkdirAll(e.Directory, 0o700); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(e.Directory, FileName(artifact))
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	if len(e.ShareCommand) > 0 {
		if err := e.share(ctx, path); err != nil {
			e.logger().Warn("share command failed", "path", path, "error", err)
		}
	}
	return path, nil
}

func (e *DirectoryExporter) share(ctx context.Context, path string) error {
	args := append(append([]string(nil), e.ShareCommand[1:]...), ShareTitle, path)
	cmd := exec.CommandContext(ctx, e.ShareCommand[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", e.ShareCommand[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (e *DirectoryExporter) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// writeFileAtomic writes through a temporary file and rename so a
// crash never leaves a truncated PDF under the final name.
func writeFileAtomic(path string, data []byte) error {
	temporary, err := os.CreateTemp(filepath.Dir(path), ".tiket-*.tmp")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0o600); err != nil {
		temporary.Close()
		return fmt.Errorf("setting export file mode: %w", err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("renaming export file: %w", err)
	}
	return nil
}

// sanitize keeps ticket numbers safe as path components.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
