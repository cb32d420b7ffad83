package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fictionkit/storyloom/pkg/story"
)

// Library loads and parses story documents from a directory.
type Library struct {
	dir    string
	logger *slog.Logger
}

// NewLibrary creates a document library rooted at dir.
func NewLibrary(dir string, logger *slog.Logger) *Library {
	if dir == "" {
		dir = "./stories"
	}
	return &Library{dir: dir, logger: logger}
}

// Document opens and parses the named story file. The name is a bare
// filename like "intro.txt"; path segments are rejected so targets cannot
// escape the story directory.
func (l *Library) Document(ctx context.Context, name string) (*story.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("document name is empty")
	}
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("document name %q must not contain path separators", name)
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("opening document %q: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := story.ParseDocument(name, f)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("document loaded", "name", name, "blocks", len(doc.Blocks))
	return doc, nil
}

// List returns the story files in the library, sorted by name.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading story directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), story.DocumentSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
