package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// TextList is an ordered list of strings stored as text[]. It accepts the
// older free-text shape too: a single string is split into items both when
// decoded from JSON and when scanned from a column holding plain text.
type TextList []string

// Value implements driver.Valuer
func (l TextList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

// Scan implements sql.Scanner
func (l *TextList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into TextList", src)
	}

	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		var arr pq.StringArray
		if err := arr.Scan(raw); err != nil {
			return err
		}
		*l = TextList(arr).Normalize()
		return nil
	}

	*l = SplitLegacyList(raw)
	return nil
}

// UnmarshalJSON accepts either a list of strings or one string blob
func (l *TextList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}

	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*l = TextList(items).Normalize()
		return nil
	}

	var blob string
	if err := json.Unmarshal(b, &blob); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = SplitLegacyList(blob)
	return nil
}

// Normalize trims every item and drops empty ones
func (l TextList) Normalize() TextList {
	if l == nil {
		return nil
	}
	out := TextList{}
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitLegacyList splits a free-text blob into items. Lines are split first;
// a single line is split on semicolons. Leading bullet markers are removed.
func SplitLegacyList(blob string) TextList {
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	parts := strings.Split(blob, "\n")
	if len(parts) == 1 {
		parts = strings.Split(blob, ";")
	}

	out := TextList{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimLeft(p, "-•*·")
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
