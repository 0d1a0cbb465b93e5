// Package signing contains the PDF composition engine and the workflow
// that burns signature placements into uploaded documents.
package signing

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	// Raster placements are fitted into this box, never upscaled.
	maxImageWidth  = 150.0
	maxImageHeight = 60.0

	textFontSize = 12

	// placeholderMark is rendered when a placement cannot be drawn as
	// requested (empty text, corrupt image payload, render failure).
	placeholderMark = "[signature]"
)

// Report summarizes per-placement recoveries during one composition.
// It is log/metric material only and never surfaced to the caller.
type Report struct {
	Dropped   []DroppedPlacement
	Fallbacks []int // indexes rendered as the placeholder mark
}

// DroppedPlacement names a placement that produced no mark at all.
type DroppedPlacement struct {
	Index  int
	Reason string
}

func (r *Report) drop(index int, reason string) {
	r.Dropped = append(r.Dropped, DroppedPlacement{Index: index, Reason: reason})
}

// composeConf returns the pdfcpu configuration used for all composition
// work. Relaxed validation: real-world uploads are frequently sloppy.
func composeConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Compose applies placements to the original PDF in list order and returns
// the signed bytes. An unparseable source is fatal (MalformedSourceError);
// everything that goes wrong with a single placement degrades to the
// placeholder mark or a recorded drop, never an aborted batch.
func Compose(original []byte, placements []models.Placement) ([]byte, *Report, error) {
	conf := composeConf()

	ctx, err := api.ReadContext(bytes.NewReader(original), conf)
	if err != nil {
		return nil, nil, &MalformedSourceError{Err: err}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, nil, &MalformedSourceError{Err: err}
	}
	pageCount := ctx.PageCount

	report := &Report{}
	current := original

	for i, p := range placements {
		if p.Page < 1 || p.Page > pageCount {
			report.drop(i, fmt.Sprintf("page %d out of range 1..%d", p.Page, pageCount))
			continue
		}

		out, err := applyPlacement(current, p, conf)
		if err != nil {
			// Degrade to the placeholder mark at the same coordinates.
			out, err = applyText(current, placeholderMark, p.X, p.Y, p.Page, conf)
			if err != nil {
				report.drop(i, fmt.Sprintf("placeholder render failed: %v", err))
				continue
			}
			report.Fallbacks = append(report.Fallbacks, i)
		}
		current = out
	}

	// The output must itself be a parseable PDF.
	if _, err := api.ReadContext(bytes.NewReader(current), conf); err != nil {
		return nil, nil, &SerializationError{Err: err}
	}

	return current, report, nil
}

// PageCount reports the number of pages of a PDF held in memory.
// The context must be validated before the count is populated.
func PageCount(pdf []byte) (int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(pdf), composeConf())
	if err != nil {
		return 0, &MalformedSourceError{Err: err}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, &MalformedSourceError{Err: err}
	}
	return ctx.PageCount, nil
}

// applyPlacement dispatches one placement by type. Unknown types and empty
// text payloads degrade inside the per-type renderers.
func applyPlacement(pdf []byte, p models.Placement, conf *model.Configuration) ([]byte, error) {
	switch p.SignatureType {
	case models.SignatureTypeImage, models.SignatureTypeDraw:
		return applyImage(pdf, p, conf)
	case models.SignatureTypeText:
		text := strings.TrimSpace(p.Signature)
		if text == "" {
			text = placeholderMark
		}
		return applyText(pdf, text, p.X, p.Y, p.Page, conf)
	default:
		return nil, fmt.Errorf("unknown signature type %q", p.SignatureType)
	}
}

// applyText stamps a single line of text with its baseline origin at (x, y)
// in page space. Fixed standard font, 12 pt, black fill.
func applyText(pdf []byte, text string, x, y float64, page int, conf *model.Configuration) ([]byte, error) {
	desc := fmt.Sprintf("fontname:Helvetica, points:%d, scale:1 abs, pos:bl, fillc:#000000, rot:0, op:1", textFontSize)
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, err
	}
	wm.Dx = x
	wm.Dy = y
	return addWatermark(pdf, wm, page, conf)
}

// applyImage decodes a data-URL raster payload, fits it into the signature
// box and stamps it with (x, y) as the top-left of the image box, offset
// downward by the scaled height to match the PDF's bottom-left origin.
func applyImage(pdf []byte, p models.Placement, conf *model.Configuration) ([]byte, error) {
	data, _, err := decodeDataURL(p.Signature)
	if err != nil {
		return nil, err
	}

	w, h, err := imageSize(data)
	if err != nil {
		return nil, err
	}

	scale := fitScale(w, h)
	desc := fmt.Sprintf("scale:%s abs, pos:bl, rot:0, op:1", strconv.FormatFloat(scale, 'f', 4, 64))
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(data), desc, true, false, types.POINTS)
	if err != nil {
		return nil, err
	}
	wm.Dx = p.X
	wm.Dy = p.Y - float64(h)*scale
	return addWatermark(pdf, wm, p.Page, conf)
}

// fitScale computes the uniform factor that fits a w x h image into the
// signature box. Capped at 1.0: images are never upscaled.
func fitScale(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1.0
	}
	scale := maxImageWidth / float64(w)
	if s := maxImageHeight / float64(h); s < scale {
		scale = s
	}
	if scale > 1.0 {
		scale = 1.0
	}
	return scale
}

// addWatermark stamps wm onto a single page and returns the new document.
func addWatermark(pdf []byte, wm *model.Watermark, page int, conf *model.Configuration) ([]byte, error) {
	var buf bytes.Buffer
	pages := []string{strconv.Itoa(page)}
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, pages, wm, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
