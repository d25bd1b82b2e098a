// Package codec converts between in-memory Plant values and the JSON
// documents persisted to the store.
//
// The document shape is forward-compatible: unknown fields are ignored
// on decode and missing fields take their zero defaults. Durations are
// serialized as ISO-8601 strings and must round-trip exactly.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/growmygarden/verdant/pkg/core"
)

// PlantDoc is the persisted representation of a Plant. Field names
// match the documents written by earlier revisions of the app, so
// existing data decodes as-is.
//
// Notification IDs are not part of the in-memory Plant; they are
// carried through merge untouched so legacy documents keep them.
type PlantDoc struct {
	UUID                     uuid.UUID  `json:"uuid"`
	UserID                   string     `json:"userId,omitempty"`
	Name                     string     `json:"name"`
	ScientificName           string     `json:"scientificName"`
	Species                  string     `json:"species"`
	Notes                    string     `json:"notes,omitempty"`
	WateringFrequency        Duration   `json:"wateringFrequency"`
	WateringNotificationID   *uuid.UUID `json:"wateringNotificationID,omitempty"`
	FertilizingFrequency     Duration   `json:"fertilizingFrequency"`
	FertilizerNotificationID *uuid.UUID `json:"fertilizerNotificationID,omitempty"`
	TrimmingFrequency        Duration   `json:"trimmingFrequency"`
	TrimmingNotificationID   *uuid.UUID `json:"trimmingNotificationID,omitempty"`
	Image                    *ImageField `json:"image,omitempty"`
}

// ImageField is the document form of an image handle:
// "<uuid>|<base64 bytes>". The bytes part is a legacy inline payload —
// tolerated on decode, never re-emitted (bytes live in the image store).
type ImageField struct {
	Ref core.ImageRef
}

// MarshalJSON implements json.Marshaler.
func (f ImageField) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.Ref.ID.String() + "|")), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *ImageField) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("image field is not a string: %w", err)
	}
	head, tail, _ := strings.Cut(s, "|")
	id, err := uuid.Parse(head)
	if err != nil {
		return fmt.Errorf("image field has no valid uuid: %w", err)
	}
	if tail != "" {
		// Legacy inline payload. Validate but discard; a bad payload is
		// not fatal because only the handle matters.
		_, _ = base64.StdEncoding.DecodeString(tail)
	}
	f.Ref = core.ImageRef{ID: id}
	return nil
}

// FromPlant builds a fresh document for p, stamped with userID.
func FromPlant(p core.Plant, userID string) PlantDoc {
	doc := PlantDoc{}
	return Merge(doc, p, userID)
}

// Merge applies the incoming plant's fields onto an existing document,
// preserving fields the in-memory Plant does not carry (notification
// IDs). This is the flush-time read-merge-write step.
func Merge(existing PlantDoc, p core.Plant, userID string) PlantDoc {
	doc := existing
	doc.UUID = p.ID
	doc.UserID = userID
	doc.Name = p.Name
	doc.ScientificName = p.ScientificName
	doc.Species = p.Species
	doc.Notes = p.Notes
	doc.WateringFrequency = Duration(p.WateringEvery)
	doc.FertilizingFrequency = Duration(p.FertilizingEvery)
	doc.TrimmingFrequency = Duration(p.TrimmingEvery)
	if p.Image != nil {
		doc.Image = &ImageField{Ref: *p.Image}
	} else {
		doc.Image = nil
	}
	return doc
}

// Plant converts the document back to the in-memory value.
func (d PlantDoc) Plant() core.Plant {
	p := core.Plant{
		ID:               d.UUID,
		Name:             d.Name,
		ScientificName:   d.ScientificName,
		Species:          d.Species,
		Notes:            d.Notes,
		WateringEvery:    time.Duration(d.WateringFrequency),
		FertilizingEvery: time.Duration(d.FertilizingFrequency),
		TrimmingEvery:    time.Duration(d.TrimmingFrequency),
	}
	if d.Image != nil {
		ref := d.Image.Ref
		p.Image = &ref
	}
	return p
}

// Encode serializes the document to its stored JSON form.
func Encode(d PlantDoc) ([]byte, error) {
	if d.UUID == uuid.Nil {
		return nil, fmt.Errorf("%w: document has no uuid", core.ErrInvalidID)
	}
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plant document: %w", err)
	}
	return body, nil
}

// Decode parses a stored JSON body into a document. Unknown fields are
// ignored; a missing or nil uuid makes the document invalid.
func Decode(body []byte) (PlantDoc, error) {
	var d PlantDoc
	if err := json.Unmarshal(body, &d); err != nil {
		return PlantDoc{}, fmt.Errorf("invalid plant document: %w", err)
	}
	if d.UUID == uuid.Nil {
		return PlantDoc{}, fmt.Errorf("%w: document has no uuid", core.ErrInvalidID)
	}
	return d, nil
}

// DecodePlant is a convenience for read paths that only need the value.
func DecodePlant(body []byte) (core.Plant, error) {
	d, err := Decode(body)
	if err != nil {
		return core.Plant{}, err
	}
	return d.Plant(), nil
}
