package signing

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("raster-bytes"))

	data, mime, err := decodeDataURL("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(data) != "raster-bytes" {
		t.Errorf("Unexpected payload: %q", data)
	}
	if mime != "image/png" {
		t.Errorf("Expected image/png, got %s", mime)
	}

	// jpg aliases normalize to jpeg
	_, mime, err = decodeDataURL("data:image/jpg;base64," + payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", mime)
	}

	// Unknown MIME defaults to png
	_, mime, err = decodeDataURL("data:application/octet-stream;base64," + payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("Unrecognized MIME should default to png, got %s", mime)
	}

	// Bare base64 without the data: scheme is accepted
	data, mime, err = decodeDataURL(payload)
	if err != nil {
		t.Fatalf("Bare base64 should decode: %v", err)
	}
	if string(data) != "raster-bytes" || mime != "image/png" {
		t.Errorf("Bare base64 decode wrong: %q %s", data, mime)
	}
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	if _, _, err := decodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Error("Invalid base64 should be rejected")
	}
	if _, _, err := decodeDataURL("data:image/png;base64"); err == nil {
		t.Error("Data URL without comma should be rejected")
	}
	if _, _, err := decodeDataURL("data:image/png;base64,"); err == nil {
		t.Error("Empty payload should be rejected")
	}
}

func TestDecodeDataURLSizeGuard(t *testing.T) {
	huge := strings.Repeat("A", base64.StdEncoding.EncodedLen(maxDecodedImageBytes+1024))
	if _, _, err := decodeDataURL("data:image/png;base64," + huge); err == nil {
		t.Error("Oversized payload should be rejected before decoding")
	}
}
