package signing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// Decode-size guard per image payload. A payload above this is treated as
// a render failure for that placement, not a batch failure.
const maxDecodedImageBytes = 8 << 20

// decodeDataURL extracts the raster bytes and normalized MIME type from a
// data URL ("data:image/png;base64,...."). A bare base64 body without the
// data: scheme is accepted too. The format defaults to png when the MIME
// is missing or unrecognized.
func decodeDataURL(s string) ([]byte, string, error) {
	mime := "image/png"
	body := strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(body, "data:"); ok {
		meta, b64, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URL: missing comma")
		}
		body = b64
		declared, _, _ := strings.Cut(meta, ";")
		mime = normalizeImageMime(declared)
	}

	if base64.StdEncoding.DecodedLen(len(body)) > maxDecodedImageBytes {
		return nil, "", fmt.Errorf("image payload exceeds %d bytes decoded", maxDecodedImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// Browsers occasionally emit URL-safe alphabets for canvas exports.
		data, err = base64.URLEncoding.DecodeString(body)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image payload")
	}

	return data, mime, nil
}

// normalizeImageMime maps declared MIME variants onto the two supported
// raster formats, defaulting to png.
func normalizeImageMime(declared string) string {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "image/jpeg", "image/jpg", "jpeg", "jpg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// imageSize measures a raster payload without decoding the full bitmap.
func imageSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("unable to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("degenerate image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}
