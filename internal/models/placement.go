package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Signature placement types
const (
	SignatureTypeText  = "text"
	SignatureTypeImage = "image"
	SignatureTypeDraw  = "draw"
)

// Placement is one signature annotation instruction: where on which page to
// render which payload. Coordinates are in PDF page space (origin bottom-left).
type Placement struct {
	Page          int     `json:"page"` // 1-based
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	SignatureType string  `json:"signatureType"` // text, image, draw
	Signature     string  `json:"signature"`     // text payload or image data URL
	PageWidth     float64 `json:"pageWidth"`     // viewport declared by the client
	PageHeight    float64 `json:"pageHeight"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	Color         string  `json:"color,omitempty"`
}

// PlacementList is stored as a JSONB column on documents
type PlacementList []Placement

// Scan implements sql.Scanner interface
func (p *PlacementList) Scan(value interface{}) error {
	if value == nil {
		*p = PlacementList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal PlacementList value: %v", value)
	}

	result := PlacementList{}
	err := json.Unmarshal(bytes, &result)
	*p = result
	return err
}

// Value implements driver.Valuer interface
func (p PlacementList) Value() (driver.Value, error) {
	if len(p) == 0 {
		return json.Marshal([]Placement{})
	}
	return json.Marshal([]Placement(p))
}
