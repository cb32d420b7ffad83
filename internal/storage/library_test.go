package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeStory(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLibrary_Document(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "intro.txt", ":- start\nHello.\n-> next\n:- next\nGoodbye.")

	lib := NewLibrary(dir, testLogger())
	doc, err := lib.Document(context.Background(), "intro.txt")
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if doc.Name != "intro.txt" {
		t.Errorf("Name = %q, want intro.txt", doc.Name)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("Blocks = %d, want 2", len(doc.Blocks))
	}
	if doc.First().Name != "start" {
		t.Errorf("First block = %q, want start", doc.First().Name)
	}
}

func TestLibrary_DocumentMissing(t *testing.T) {
	lib := NewLibrary(t.TempDir(), testLogger())
	if _, err := lib.Document(context.Background(), "ghost.txt"); err == nil {
		t.Fatal("Expected an error for a missing document")
	}
}

func TestLibrary_DocumentRejectsPaths(t *testing.T) {
	lib := NewLibrary(t.TempDir(), testLogger())
	for _, name := range []string{"", "../escape.txt", "sub/dir.txt"} {
		if _, err := lib.Document(context.Background(), name); err == nil {
			t.Errorf("Expected an error for document name %q", name)
		}
	}
}

func TestLibrary_List(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "b.txt", ":- start\nB.")
	writeStory(t, dir, "a.txt", ":- start\nA.")
	writeStory(t, dir, "notes.md", "not a story")
	if err := os.Mkdir(filepath.Join(dir, "drafts"), 0o755); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary(dir, testLogger())
	names, err := lib.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a.txt", "b.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}
