package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Description is either a list of bullet items or a plain paragraph.
// It marshals to a JSON array when Bullets is set and to a string otherwise.
type Description struct {
	Bullets []string
	Text    string
}

// BulletDescription builds a list-form description
func BulletDescription(items []string) *Description {
	return &Description{Bullets: items}
}

// TextDescription builds a paragraph-form description
func TextDescription(text string) *Description {
	return &Description{Text: text}
}

// IsList reports whether the description is in bullet-list form
func (d *Description) IsList() bool {
	return len(d.Bullets) > 0
}

// String renders the description as plain text, one "• " line per bullet
func (d *Description) String() string {
	if !d.IsList() {
		return d.Text
	}
	var buf bytes.Buffer
	for i, item := range d.Bullets {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("• ")
		buf.WriteString(item)
	}
	return buf.String()
}

// MarshalJSON implements json.Marshaler
func (d Description) MarshalJSON() ([]byte, error) {
	if d.IsList() {
		return json.Marshal(d.Bullets)
	}
	return json.Marshal(d.Text)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty description")
	}
	switch data[0] {
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to decode description list: %w", err)
		}
		d.Bullets, d.Text = items, ""
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to decode description text: %w", err)
		}
		d.Bullets, d.Text = nil, text
	default:
		return fmt.Errorf("description must be a string or a list, got %s", string(data))
	}
	return nil
}
