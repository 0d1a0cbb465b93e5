package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}
	return s
}

func TestEnsureLayoutIdempotent(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("First EnsureLayout failed: %v", err)
	}
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("Second EnsureLayout failed: %v", err)
	}
	for _, dir := range []string{DirOriginals, DirSigned} {
		if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
			t.Errorf("Expected %s directory: %v", dir, err)
		}
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ref := "pdf/test.pdf"
	if err := s.Save(ref, []byte("hello")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := s.Open(ref)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Round trip corrupted data: %q", data)
	}

	if err := s.Remove(ref); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.Open(ref); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist after Remove, got %v", err)
	}
}

func TestSaveStream(t *testing.T) {
	s := newTestStore(t)

	n, err := s.SaveStream("pdf/streamed.pdf", bytes.NewReader([]byte("streamed-bytes")))
	if err != nil {
		t.Fatalf("SaveStream failed: %v", err)
	}
	if n != int64(len("streamed-bytes")) {
		t.Errorf("Expected %d bytes written, got %d", len("streamed-bytes"), n)
	}

	rc, err := s.Reader("pdf/streamed.pdf")
	if err != nil {
		t.Fatalf("Reader failed: %v", err)
	}
	defer rc.Close()
}

func TestTraversalRejected(t *testing.T) {
	s := newTestStore(t)

	bad := []string{
		"../outside.pdf",
		"pdf/../../outside.pdf",
		"/etc/passwd",
		".",
		"",
	}
	for _, ref := range bad {
		if err := s.Save(ref, []byte("x")); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Save(%q) should reject with ErrInvalidRef, got %v", ref, err)
		}
		if _, err := s.Open(ref); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Open(%q) should reject with ErrInvalidRef, got %v", ref, err)
		}
	}
}

func TestUploadRef(t *testing.T) {
	s := newTestStore(t)

	ref := s.UploadRef("contract.pdf")
	if !strings.HasPrefix(ref, DirOriginals+"/") {
		t.Errorf("Upload ref should live under %s/, got %s", DirOriginals, ref)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("Upload ref should keep the extension, got %s", ref)
	}

	// Missing extension defaults to .pdf
	if ref := s.UploadRef("contract"); !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("Extensionless upload should default to .pdf, got %s", ref)
	}
}

func TestSignedRefSanitizes(t *testing.T) {
	s := newTestStore(t)

	ref := s.SignedRef("my contract (final)?.pdf")
	if !strings.HasPrefix(ref, DirSigned+"/signed_") {
		t.Errorf("Signed ref should live under %s/signed_, got %s", DirSigned, ref)
	}
	base := ref[strings.LastIndex(ref, "/")+1:]
	for _, c := range []string{" ", "(", ")", "?"} {
		if strings.Contains(base, c) {
			t.Errorf("Signed ref should be sanitized, got %s", ref)
		}
	}

	// Sanitized refs must round-trip through the store
	if err := s.Save(ref, []byte("signed")); err != nil {
		t.Fatalf("Save of signed ref failed: %v", err)
	}

	// Hostile display names must not escape the signed namespace
	hostile := s.SignedRef("../../etc/passwd")
	if !strings.HasPrefix(hostile, DirSigned+"/") || strings.Contains(hostile, "..") {
		t.Errorf("Hostile name leaked into ref: %s", hostile)
	}
}
