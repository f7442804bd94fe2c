package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
)

// Decode reads a JSON encoded specification.
//
// Numbers are kept as json.Number so integer constraints and literals keep
// their exact value.
func Decode(r io.Reader) (Specification, error) {
	if r == nil {
		return nil, fmt.Errorf("decode specification: nil reader")
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var spec Specification
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode specification: %w", err)
	}
	for name, module := range spec {
		if module == nil {
			return nil, fmt.Errorf("decode specification: module %s is null", name)
		}
	}
	return spec, nil
}

// DecodeFile reads a JSON encoded specification from fsys.
func DecodeFile(fsys fs.FS, name string) (spec Specification, err error) {
	if fsys == nil {
		return nil, fmt.Errorf("open specification %s: nil fs", name)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open specification %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close specification %s: %w", name, closeErr)
		}
	}()
	return Decode(f)
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
