package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/vidnote/pkg/core"
)

// Serializer defines how the note document is read and written for one file format.
type Serializer interface {
	// Parse reads the whole document. An empty document is an empty collection.
	Parse(r io.Reader) ([]core.Note, error)
	// Serialize encodes the whole collection.
	Serialize(notes []core.Note) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer stores the collection as a JSON array.
type JSONSerializer struct {
	Indent string
}

// NewJSONSerializer creates a JSON serializer with two-space indentation.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{Indent: "  "}
}

func (s *JSONSerializer) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, nil
	}

	var notes []core.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("invalid json note document: %w", err)
	}
	return normalize(notes), nil
}

func (s *JSONSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", s.Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(notes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- YAML Serializer ---

// YAMLSerializer stores the collection as a YAML sequence.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) ([]core.Note, error) {
	var notes []core.Note
	if err := yaml.NewDecoder(r).Decode(&notes); err != nil {
		if err == io.EOF {
			return []core.Note{}, nil
		}
		return nil, fmt.Errorf("invalid yaml note document: %w", err)
	}
	return normalize(notes), nil
}

func (s *YAMLSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(notes); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize enforces the tag invariant on documents edited by hand.
func normalize(notes []core.Note) []core.Note {
	if notes == nil {
		return []core.Note{}
	}
	for i := range notes {
		notes[i].Tags = core.NormalizeTags(notes[i].Tags)
	}
	return notes
}
