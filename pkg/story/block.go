// Package story holds the document model for the line-oriented story markup:
// blocks, choices, the parser, and the conditional line resolver.
package story

import "strings"

// DocumentSuffix distinguishes choice targets that refer to another document
// from targets that name a block in the current document. The distinction is
// purely lexical; no existence check happens at parse time.
const DocumentSuffix = ".txt"

// Block is an atomic unit of narrative: the raw text lines shown on entry,
// the choices offered afterwards, and the flag/counter effects applied in
// between. Blocks are immutable once parsed.
type Block struct {
	Name     string
	Text     []string
	Choices  []Choice
	Flags    map[string]bool
	Counters map[string]int
}

// Choice links a block to what comes next.
//
// Label is the display text and may carry a leading conditional directive;
// a choice whose condition is false is dropped entirely (there is no else
// branch for choices). Keywords is the free-text matching field: a literal
// phrase, or a dictionary reference when it starts with the lexicon marker.
// Target names a block in the same document, or another document when it
// ends in DocumentSuffix.
type Choice struct {
	Label    string
	Keywords string
	Target   string
}

// Document is the parsed form of one story file.
type Document struct {
	Name   string
	Blocks []Block
}

// IsDocumentTarget reports whether target refers to another document.
func IsDocumentTarget(target string) bool {
	return strings.HasSuffix(target, DocumentSuffix)
}

// Block returns the first block with the given name. Lookup is exact-match
// and case-sensitive; duplicate names resolve to the first in sequence order.
func (d *Document) Block(name string) (*Block, bool) {
	for i := range d.Blocks {
		if d.Blocks[i].Name == name {
			return &d.Blocks[i], true
		}
	}
	return nil, false
}

// First returns the document's first block.
func (d *Document) First() *Block {
	if len(d.Blocks) == 0 {
		return nil
	}
	return &d.Blocks[0]
}
