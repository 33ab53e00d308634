// Package query computes filtered views over a note collection.
// Every function here is pure: it never mutates its input and returns results
// in the order of the underlying collection.
package query

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/vidnote/pkg/core"
)

// Filter returns the notes whose content contains search (case-insensitive)
// and which carry at least one of tags. Empty search and empty tags match everything.
func Filter(notes []core.Note, search string, tags []string) []core.Note {
	needle := strings.ToLower(search)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if matchText(n, needle) && matchAnyTag(n, tags) {
			out = append(out, n)
		}
	}
	return out
}

// AvailableTags returns the union of all tags, deduplicated, in first-seen order.
func AvailableTags(notes []core.Note) []string {
	var all []string
	for _, n := range notes {
		all = append(all, n.Tags...)
	}
	return core.NormalizeTags(all)
}

// Criteria extends Filter with an optional glob over the source URL
// (e.g. "https://youtu.be/*" or "**/embed/*").
type Criteria struct {
	Search string
	Tags   []string
	Source string
}

// Apply evaluates c over notes. It fails only on a malformed Source pattern.
func Apply(notes []core.Note, c Criteria) ([]core.Note, error) {
	if c.Source != "" && !doublestar.ValidatePattern(c.Source) {
		return nil, fmt.Errorf("invalid source pattern %q: %w", c.Source, doublestar.ErrBadPattern)
	}
	filtered := Filter(notes, c.Search, c.Tags)
	if c.Source == "" {
		return filtered, nil
	}
	out := filtered[:0]
	for _, n := range filtered {
		ok, err := doublestar.Match(c.Source, n.SourceURL)
		if err != nil {
			return nil, fmt.Errorf("invalid source pattern %q: %w", c.Source, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func matchText(n core.Note, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(n.Content), needle)
}

func matchAnyTag(n core.Note, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}
