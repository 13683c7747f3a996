package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Exporter writes rendered documents into a target directory, the hand-off
// point for the platform's save and share mechanisms.
type Exporter struct {
	directory string
}

func NewExporter(directory string) *Exporter {
	return &Exporter{directory: directory}
}

// Export renders text and writes it to <directory>/<baseName>.<format>,
// returning the file path and the rendered bytes. The format is validated
// before anything touches the filesystem.
func (e *Exporter) Export(text string, format Format, baseName string) (string, []byte, error) {
	rendered, err := Render(text, format)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(e.directory, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create export directory %s: %w", e.directory, err)
	}

	path := filepath.Join(e.directory, sanitizeBaseName(baseName)+"."+string(format))
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", nil, fmt.Errorf("failed to write export file %s: %w", path, err)
	}

	slog.Info("document exported", "path", path, "format", format, "size_bytes", len(rendered))
	return path, rendered, nil
}

// sanitizeBaseName strips path separators and other characters that are
// unsafe in file names. An empty result falls back to "document".
func sanitizeBaseName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return "document"
	}
	return cleaned
}
