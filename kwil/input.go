package kwil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionInput is one row of named action parameters ("$name" -> value).
// Parameters keep their insertion order, including through JSON.
type ActionInput struct {
	names  []string
	values map[string]any
}

// Batch is an ordered group of rows submitted in one transaction.
type Batch []*ActionInput

// NewActionInput returns an empty row.
func NewActionInput() *ActionInput {
	return &ActionInput{values: make(map[string]any)}
}

// Put sets name to value. Overwriting keeps the original position.
func (a *ActionInput) Put(name string, value any) *ActionInput {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
	return a
}

// Get returns the value stored under name.
func (a *ActionInput) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Names returns the parameter names in insertion order.
func (a *ActionInput) Names() []string {
	return append([]string(nil), a.names...)
}

// Len returns the number of parameters.
func (a *ActionInput) Len() int {
	return len(a.names)
}

// MarshalJSON encodes the row as an object with keys in insertion order.
func (a *ActionInput) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameter %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, recording keys in document order.
func (a *ActionInput) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("action input must be a JSON object")
	}

	a.names = nil
	a.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode parameter %s: %w", name, err)
		}
		a.Put(name, value)
	}
	_, err = dec.Token()
	return err
}
