package signing

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/docsign-app/docsigngo/internal/models"
)

// Default client viewport assumed when the caller declares none.
const (
	defaultPageWidth  = 800
	defaultPageHeight = 600
)

// RawPlacement is a client-supplied placement before normalization. Numeric
// fields are loosely typed on purpose: clients have historically sent
// numbers, numeric strings or nothing at all, and the policy is best-effort
// coercion rather than rejection.
type RawPlacement struct {
	Page          interface{} `json:"page"`
	X             interface{} `json:"x"`
	Y             interface{} `json:"y"`
	SignatureType string      `json:"signatureType"`
	Signature     string      `json:"signature"`
	PageWidth     interface{} `json:"pageWidth"`
	PageHeight    interface{} `json:"pageHeight"`
	FontStyle     string      `json:"fontStyle"`
	Color         string      `json:"color"`
}

// NormalizePlacements validates and coerces a raw placement list into
// Placement records ready for composition. Order is preserved: later
// placements overlay earlier ones at the same location. A batch is never
// rejected for one bad element; per-placement problems are left to the
// composition engine's fallback.
func NormalizePlacements(raw []RawPlacement, pageWidth, pageHeight float64) []models.Placement {
	if pageWidth <= 0 {
		pageWidth = defaultPageWidth
	}
	if pageHeight <= 0 {
		pageHeight = defaultPageHeight
	}

	out := make([]models.Placement, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.Placement{
			Page:          toInt(r.Page, 0),
			X:             toFloat(r.X, 0),
			Y:             toFloat(r.Y, 0),
			SignatureType: r.SignatureType,
			Signature:     r.Signature,
			PageWidth:     toFloat(r.PageWidth, pageWidth),
			PageHeight:    toFloat(r.PageHeight, pageHeight),
			FontStyle:     r.FontStyle,
			Color:         r.Color,
		})
	}
	return out
}

// toFloat coerces a loosely typed JSON value to a finite float64.
func toFloat(v interface{}, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// toInt coerces a loosely typed JSON value to an int.
func toInt(v interface{}, def int) int {
	f := toFloat(v, float64(def))
	return int(f)
}
