// Command validate lints story markup files: it parses each file, then
// checks that block names are unique and that every choice target resolves
// to a block in the same file or a story file that exists alongside it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fictionkit/storyloom/pkg/story"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <story.txt> [more.txt ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		v := &validator{}
		if err := v.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		for _, w := range v.warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		fmt.Printf("%s is valid (%d blocks)\n", filename, v.blockCount)
	}
	if failed {
		os.Exit(1)
	}
}

type validator struct {
	warnings   []string
	blockCount int
}

func (v *validator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(filename, story.DocumentSuffix) {
		return fmt.Errorf("story file must have the %s extension: %s", story.DocumentSuffix, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := story.ParseDocument(filepath.Base(filename), f)
	if err != nil {
		return err
	}
	v.blockCount = len(doc.Blocks)
	v.checkDocument(doc, filepath.Dir(filename))
	return nil
}

func (v *validator) checkDocument(doc *story.Document, dir string) {
	seen := make(map[string]bool)
	for _, b := range doc.Blocks {
		if seen[b.Name] {
			v.warnf("duplicate block name %q: lookups resolve to the first occurrence", b.Name)
		}
		seen[b.Name] = true
	}

	for _, b := range doc.Blocks {
		for _, c := range b.Choices {
			v.checkTarget(doc, dir, b.Name, c.Target)
		}
	}
}

// checkTarget flags targets that will end the branch at play time. Target
// resolution is lexical, so a dangling target parses fine and only surfaces
// as a dead end when followed.
func (v *validator) checkTarget(doc *story.Document, dir, blockName, target string) {
	if target == "" {
		v.warnf("block %q has a choice with an empty target", blockName)
		return
	}
	if story.IsDocumentTarget(target) {
		if _, err := os.Stat(filepath.Join(dir, target)); err != nil {
			v.warnf("block %q links to missing story file %q", blockName, target)
		}
		return
	}
	if _, ok := doc.Block(target); !ok {
		v.warnf("block %q links to unknown block %q", blockName, target)
	}
}

func (v *validator) warnf(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}
