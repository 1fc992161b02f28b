package project

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformed is returned for layout and cabinet files that cannot be used.
var ErrMalformed = errors.New("malformed file")

//go:embed schema/*.json
var schemas embed.FS

var (
	layoutSchema  = mustSchema("schema/layout.schema.json")
	cabinetSchema = mustSchema("schema/cabinet.schema.json")
)

func mustSchema(name string) *gojsonschema.Schema {
	data, err := schemas.ReadFile(name)
	if err != nil {
		panic(err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", name, err))
	}
	return s
}

// validate checks data against schema and folds all violations into one error.
func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
	}
	return nil
}

// rawLayout mirrors the layout file loosely so that numbers written as
// strings and missing fields can be tolerated.
type rawLayout struct {
	Title json.RawMessage `json:"title"`
	Meta  json.RawMessage `json:"meta"`
	Room struct {
		Width    json.RawMessage `json:"width"`
		Height   json.RawMessage `json:"height"`
		GridSize json.RawMessage `json:"gridSize"`
	} `json:"room"`
	Cabinets []map[string]json.RawMessage `json:"cabinets"`
}

// DecodeLayout parses a layout file. The room must have three positive
// dimensions; cabinet fields fall back to defaults when missing or unparsable.
func DecodeLayout(data []byte) (model.Layout, error) {
	if err := validate(layoutSchema, data); err != nil {
		return model.Layout{}, err
	}
	var raw rawLayout
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Layout{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	room := model.Room{
		Width:    numberOr(raw.Room.Width, 0),
		Height:   numberOr(raw.Room.Height, 0),
		GridSize: numberOr(raw.Room.GridSize, 0),
	}
	if !room.Valid() {
		return model.Layout{}, fmt.Errorf("%w: room width, height and grid size must be positive numbers", ErrMalformed)
	}

	title := stringOr(raw.Title, "")
	if title == "" {
		var meta map[string]json.RawMessage
		if json.Unmarshal(raw.Meta, &meta) == nil {
			title = stringOr(meta["title"], "")
		}
	}
	if title == "" {
		title = model.DefaultLayoutTitle
	}

	records := make([]model.CabinetRecord, 0, len(raw.Cabinets))
	for _, c := range raw.Cabinets {
		records = append(records, model.CabinetRecord{
			Name:     stringOr(c["name"], model.DefaultCabinetName),
			Width:    positiveOr(c["width"], 1),
			Height:   positiveOr(c["height"], 1),
			Color:    stringOr(c["color"], model.DefaultCabinetColor),
			X:        numberOr(c["x"], 0),
			Y:        numberOr(c["y"], 0),
			Rotation: numberOr(c["rotation"], 0),
			Locked:   truthy(c["locked"]),
		})
	}
	return model.Layout{Title: title, Room: room, Cabinets: records}, nil
}

// EncodeLayout renders a layout file with two-space indentation.
func EncodeLayout(l model.Layout) ([]byte, error) {
	if l.Cabinets == nil {
		l.Cabinets = []model.CabinetRecord{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return data, nil
}

// ReadLayout loads and decodes a layout file.
func ReadLayout(path string) (model.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	return DecodeLayout(data)
}

// WriteLayout encodes and writes a layout file, creating parent directories.
func WriteLayout(path string, l model.Layout) error {
	data, err := EncodeLayout(l)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// cabinetFile is the exported cabinet document. Rotation and position are not part of it.
type cabinetFile struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// DecodeCabinet parses a cabinet file. Width and height are required and
// must be positive numbers.
func DecodeCabinet(data []byte) (model.CabinetTemplate, error) {
	if err := validate(cabinetSchema, data); err != nil {
		return model.CabinetTemplate{}, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CabinetTemplate{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	w, h := numberOr(raw["width"], 0), numberOr(raw["height"], 0)
	if w <= 0 || h <= 0 {
		return model.CabinetTemplate{}, fmt.Errorf("%w: missing cabinet dimensions", ErrMalformed)
	}
	return model.CabinetTemplate{
		Name:   stringOr(raw["name"], model.DefaultCabinetName),
		Width:  w,
		Height: h,
		Color:  stringOr(raw["color"], model.DefaultCabinetColor),
	}, nil
}

// EncodeCabinet renders a cabinet file.
func EncodeCabinet(t model.CabinetTemplate) ([]byte, error) {
	name := t.Name
	if name == "" {
		name = model.DefaultCabinetName
	}
	data, err := json.MarshalIndent(cabinetFile{Name: name, Width: t.Width, Height: t.Height, Color: t.Color}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode cabinet: %w", err)
	}
	return data, nil
}

// ReadCabinet loads and decodes a cabinet file.
func ReadCabinet(path string) (model.CabinetTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CabinetTemplate{}, fmt.Errorf("failed to read cabinet file: %w", err)
	}
	return DecodeCabinet(data)
}

// WriteCabinet encodes and writes a cabinet file.
func WriteCabinet(path string, t model.CabinetTemplate) error {
	data, err := EncodeCabinet(t)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// numberOr parses a JSON number or a numeric string.
func numberOr(raw json.RawMessage, def float64) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return def
}

func positiveOr(raw json.RawMessage, def float64) float64 {
	if f := numberOr(raw, 0); f > 0 {
		return f
	}
	return def
}

// stringOr returns a non-empty JSON string, or def.
func stringOr(raw json.RawMessage, def string) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return def
	}
	return s
}

// truthy follows loose JSON truthiness: true, non-zero numbers and non-empty strings.
func truthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}
