// Package storage is the filesystem blob store for uploaded originals and
// generated signed PDFs. Blobs are addressed by a relative reference such
// as "pdf/1724700000000.pdf" or "signed/signed_1724700000000_ab12cd34_contract.pdf".
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Blob namespaces under the upload root
const (
	DirOriginals = "pdf"
	DirSigned    = "signed"
)

// ErrInvalidRef is returned for references that escape the upload root.
var ErrInvalidRef = fmt.Errorf("invalid blob reference")

// Store persists blobs under a single upload root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir. Call EnsureLayout before first use.
func New(dir string) *Store {
	return &Store{root: dir}
}

// EnsureLayout creates the originals and signed namespaces. Idempotent;
// invoked once during process initialization.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{DirOriginals, DirSigned} {
		path := filepath.Join(s.root, dir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
		}
	}
	return nil
}

// resolve maps a blob reference to an absolute path, rejecting traversal.
func (s *Store) resolve(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(s.root, clean), nil
}

// Save writes data to the blob identified by ref.
func (s *Store) Save(ref string, data []byte) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveStream streams r into the blob identified by ref and returns the
// number of bytes written.
func (s *Store) SaveStream(ref string, r io.Reader) (int64, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

// Open reads the whole blob identified by ref.
func (s *Store) Open(ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Reader opens the blob for streaming.
func (s *Store) Reader(ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the blob identified by ref.
func (s *Store) Remove(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// UploadRef generates a reference for a freshly uploaded original,
// named by upload time like the original multer disk storage did.
func (s *Store) UploadRef(originalName string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s/%d%s", DirOriginals, time.Now().UnixMilli(), ext)
}

// SignedRef generates a collision-resistant reference for signed output,
// derived from a timestamp, a uuid fragment and the original base name.
func (s *Store) SignedRef(originalName string) string {
	base := sanitizeName(filepath.Base(originalName))
	frag := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s/signed_%d_%s_%s", DirSigned, time.Now().UnixMilli(), frag, base)
}

// sanitizeName strips path separators and other shell-hostile characters
// from a display filename before it becomes part of a blob reference.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "document.pdf"
	}
	return b.String()
}
