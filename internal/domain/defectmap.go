package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefectMap is the canonical form of a per-inspection defect column: a
// mapping from checklist item label to "marked defective". Historical rows
// stored the column in several shapes (JSON object, JSON-encoded string of
// an object, legacy array of labels, null); every shape is normalized to
// this one type at the decode boundary and nothing downstream branches on
// shape again.
//
// Label encounter order is preserved so that tallies built from many maps
// can break count ties by first observation.
type DefectMap struct {
	labels []string
	marked map[string]bool
}

// NewDefectMap builds a map from ordered (label, defective) pairs.
func NewDefectMap(pairs ...DefectItem) DefectMap {
	var m DefectMap
	for _, p := range pairs {
		m.Set(p.Label, p.Defective)
	}
	return m
}

// DefectItem is one (label, defective) pair in encounter order.
type DefectItem struct {
	Label     string
	Defective bool
}

// Set records a label. Re-setting an existing label updates its value
// without changing its position.
func (m *DefectMap) Set(label string, defective bool) {
	if m.marked == nil {
		m.marked = make(map[string]bool)
	}
	if _, seen := m.marked[label]; !seen {
		m.labels = append(m.labels, label)
	}
	m.marked[label] = defective
}

// Labels returns all labels in encounter order.
func (m DefectMap) Labels() []string { return m.labels }

// Defective reports whether the label is present and marked defective.
func (m DefectMap) Defective(label string) bool { return m.marked[label] }

// Len returns the number of distinct labels.
func (m DefectMap) Len() int { return len(m.labels) }

// IsEmpty reports whether the map carries no labels at all.
func (m DefectMap) IsEmpty() bool { return len(m.labels) == 0 }

// Items returns the ordered (label, defective) pairs.
func (m DefectMap) Items() []DefectItem {
	items := make([]DefectItem, 0, len(m.labels))
	for _, l := range m.labels {
		items = append(items, DefectItem{Label: l, Defective: m.marked[l]})
	}
	return items
}

// MarshalJSON renders the canonical on-the-wire encoding: a JSON object
// with labels in encounter order. This is the only shape ever written back
// to storage, and DecodeDefectMap re-decodes it losslessly.
func (m DefectMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range m.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if m.marked[l] {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts every historical shape. See DecodeDefectMap.
func (m *DefectMap) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeDefectMap(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// DecodeDefectMap normalizes a stored defect column value into a DefectMap.
//
// Accepted shapes:
//   - absent/null/empty sentinels ("", "null", "{}", `""`) → empty map
//   - JSON object label→value: values true or "true" mark defective,
//     anything else marks not defective
//   - JSON array of labels (legacy form): each label implies defective
//   - JSON string: one level of double-encoding is unwrapped and the inner
//     text decoded as above
//
// Malformed text is an error; callers that must not abort (the tally
// aggregator) catch it and substitute an empty map.
func DecodeDefectMap(raw []byte) (DefectMap, error) {
	var m DefectMap

	text := bytes.TrimSpace(raw)
	if isEmptySentinel(text) {
		return m, nil
	}

	// Double-encoded rows store the object as a JSON string.
	if text[0] == '"' {
		var inner string
		if err := json.Unmarshal(text, &inner); err != nil {
			return m, fmt.Errorf("defect map: unwrap string form: %w", err)
		}
		text = bytes.TrimSpace([]byte(inner))
		if isEmptySentinel(text) {
			return m, nil
		}
	}

	switch text[0] {
	case '{':
		return decodeObjectForm(text)
	case '[':
		return decodeArrayForm(text)
	default:
		return m, fmt.Errorf("defect map: unsupported shape %q", previewByte(text))
	}
}

// isEmptySentinel matches the values that historically meant "no defects
// recorded": NULL, empty string, empty object, and an encoded empty string.
func isEmptySentinel(text []byte) bool {
	switch string(text) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}

// decodeObjectForm walks the object token by token so that key encounter
// order survives; encoding/json maps would randomize it.
func decodeObjectForm(text []byte) (DefectMap, error) {
	var m DefectMap

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return m, fmt.Errorf("defect map: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return m, fmt.Errorf("defect map: %w", err)
		}
		label, ok := tok.(string)
		if !ok {
			return m, fmt.Errorf("defect map: non-string key %v", tok)
		}
		val, err := dec.Token()
		if err != nil {
			return m, fmt.Errorf("defect map: value for %q: %w", label, err)
		}
		// A nested container never means defective; skip its tokens so the
		// walk stays aligned with top-level keys.
		if delim, isDelim := val.(json.Delim); isDelim {
			if err := skipContainer(dec, delim); err != nil {
				return m, fmt.Errorf("defect map: value for %q: %w", label, err)
			}
			m.Set(label, false)
			continue
		}
		m.Set(label, isDefectiveValue(val))
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return m, fmt.Errorf("defect map: %w", err)
	}
	return m, nil
}

// skipContainer consumes tokens until the container opened by delim is
// closed.
func skipContainer(dec *json.Decoder, delim json.Delim) error {
	if delim != '{' && delim != '[' {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

// decodeArrayForm handles the legacy array-of-labels shape: presence in
// the array implies defective.
func decodeArrayForm(text []byte) (DefectMap, error) {
	var m DefectMap

	var labels []string
	if err := json.Unmarshal(text, &labels); err != nil {
		return m, fmt.Errorf("defect map: legacy array form: %w", err)
	}
	for _, l := range labels {
		m.Set(l, true)
	}
	return m, nil
}

// isDefectiveValue applies the counting rule: boolean true and the string
// "true" mean defective, every other value (false, "false", numbers,
// nested null) does not.
func isDefectiveValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

func previewByte(text []byte) string {
	if len(text) == 0 {
		return ""
	}
	return string(text[0])
}
