package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Note is the central entity of the domain.
// It pairs a source video with the prompt used to analyze it and the generated text.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	SourceURL string    `json:"url" yaml:"url"`
	Prompt    string    `json:"prompt" yaml:"prompt"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
}

// HasTag reports whether the note carries tag (exact match).
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone returns a copy that does not share the tag slice.
func (n Note) clone() Note {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	return n
}

// NormalizeTags trims every tag, drops blanks and duplicates, and keeps first-seen order.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags splits a comma-separated tag list and normalizes it.
//
//	ParseTags("  x , ,y ") // ["x", "y"]
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// FormatTags joins tags for display or for pre-filling an edit field.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// Timestamp is a time.Time encoded as an ISO-8601 string.
// Decoding also accepts the zone-less microsecond form ("2024-05-01T10:00:00.123456"),
// which is read as UTC.
type Timestamp struct {
	time.Time
}

const localISOLayout = "2006-01-02T15:04:05.999999999"

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses an RFC 3339 or zone-less ISO-8601 string.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewTimestamp(t), nil
	}
	t, err := time.Parse(localISOLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *Timestamp) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
