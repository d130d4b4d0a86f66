package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ref identifies a glTF object. glTF 2.0 references objects by array index and glTF 1.0 by dictionary key;
// both are normalized to the string form so "0" addresses the first element of a 2.0 array.
type ref string

func (r *ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid glTF reference %s: %w", data, err)
		}
		*r = ref(s)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid glTF reference %s: %w", data, err)
	}
	*r = ref(strconv.Itoa(n))
	return nil
}

// String returns the normalized id.
func (r ref) String() string { return string(r) }

// refOf returns the id of an optional reference and whether it is set.
func refOf(r *ref) (string, bool) {
	if r == nil {
		return "", false
	}
	return string(*r), true
}

// idMap is an ordered collection of glTF objects that decodes from a JSON array (glTF 2.0, keys "0", "1", ...)
// or a JSON object (glTF 1.0, keys preserved in document order).
type idMap[T any] struct {
	keys  []string
	items map[string]*T
}

func (m *idMap[T]) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.items = make(map[string]*T)

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		for i := range list {
			m.put(strconv.Itoa(i), &list[i])
		}
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("invalid glTF dictionary key %v", tok)
			}
			v := new(T)
			if err := dec.Decode(v); err != nil {
				return fmt.Errorf("failed to decode %q: %w", key, err)
			}
			m.put(key, v)
		}
		return nil
	}
	return fmt.Errorf("glTF collection must be an array or an object, got %.16s", data)
}

func (m *idMap[T]) put(key string, v *T) {
	if m.items == nil {
		m.items = make(map[string]*T)
	}
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// Get returns the object with the given id.
func (m idMap[T]) Get(id string) (*T, bool) {
	v, ok := m.items[id]
	return v, ok
}

// Keys returns the ids in document order.
func (m idMap[T]) Keys() []string { return m.keys }

// Len returns the number of objects.
func (m idMap[T]) Len() int { return len(m.keys) }

// extensions holds the raw extension objects of a glTF record keyed by extension name.
type extensions map[string]json.RawMessage

// decode unmarshals the named extension into v and reports whether it was present.
func (e extensions) decode(name string, v any) (bool, error) {
	raw, ok := e[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode extension %s: %w", name, err)
	}
	return true, nil
}
