package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Tags is a set of free-form labels attached to a photo, stored as a JSON
// array. Order is not significant; Value always emits a sorted array so the
// persisted form is stable.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	sorted := append(Tags(nil), t...)
	sort.Strings(sorted)
	b, err := json.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("marshal Tags: %w", err)
	}
	return b, nil
}

func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = Tags{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Tags.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("unmarshal Tags: %w", err)
	}
	return nil
}

func (t Tags) Has(tag string) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}

// Union returns the set union of t and other. Existing tags are never removed.
func (t Tags) Union(other []string) Tags {
	out := append(Tags(nil), t...)
	for _, tag := range other {
		if !out.Has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Without returns t with the given tag removed, if present.
func (t Tags) Without(tag string) Tags {
	out := make(Tags, 0, len(t))
	for _, existing := range t {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}
