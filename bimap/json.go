package bimap

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrKeyType is returned when a JSON object key cannot be converted to or from the left type.
	ErrKeyType = errors.New("bimap: unsupported key")
)

// MarshalJSON writes this Multi as a single JSON object with one member per pair.
// A left value which has many right values appears as a repeated key, e.g., {"a":"b","a":"c"}.
func (m *Multi[L, R]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for l, r := range m.All() {
		key, err := encodeKey(l)
		if err != nil {
			return nil, err
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("bimap: encoding value for %q: %w", key, err)
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of this Multi by inserting every member of a JSON object in order.
// Repeated keys are allowed and each one adds a pair. A JSON null leaves the Multi empty.
// On error the Multi is left unchanged.
func (m *Multi[L, R]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("bimap: %w", err)
	}

	var pairs []Pair[L, R]
	if tok != nil {
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return fmt.Errorf("bimap: expected object, got %v", tok)
		}

		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("bimap: %w", err)
			}
			key, _ := tok.(string)

			var p Pair[L, R]
			if err := decodeKey(key, &p.Left); err != nil {
				return err
			}
			if err := dec.Decode(&p.Right); err != nil {
				return fmt.Errorf("bimap: decoding value for %q: %w", key, err)
			}
			pairs = append(pairs, p)
		}

		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("bimap: %w", err)
		}
	}

	m.Clear()
	for _, p := range pairs {
		m.Insert(p.Left, p.Right)
	}
	return nil
}

// encodeKey converts a left value into a JSON object key.
// Strings are used as-is, then encoding.TextMarshaler, then the value's own JSON with any outer quotes removed.
func encodeKey(v any) (string, error) {
	switch k := v.(type) {
	case string:
		return k, nil
	case encoding.TextMarshaler:
		b, err := k.MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrKeyType, err)
		}
		return string(b), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyType, err)
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrKeyType, err)
		}
		return s, nil
	}
	return string(b), nil
}

// decodeKey is the inverse of encodeKey.
func decodeKey[L any](key string, out *L) error {
	if tu, ok := any(out).(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(key)); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrKeyType, key, err)
		}
		return nil
	}

	quoted, _ := json.Marshal(key)
	if err := json.Unmarshal(quoted, out); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(key), out); err != nil {
		return fmt.Errorf("%w: %q", ErrKeyType, key)
	}
	return nil
}
