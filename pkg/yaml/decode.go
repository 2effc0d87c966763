package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads lintcfg documents. Syntax and type errors come back as
// [*Error] values holding the offending token, which the [ErrorWrapper]
// renders against the document source.
type Decoder struct {
	dec *yaml.Decoder
}

// NewDecoder returns a [Decoder] reading from r. Duplicate mapping keys are
// accepted and the last one wins, matching how JSON configuration files are
// read.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		dec: yaml.NewDecoder(r, yaml.AllowDuplicateMapKey()),
	}
}

// Decode reads the next document into v. It returns [io.EOF] when the input
// holds no further documents.
func (d *Decoder) Decode(v any) error {
	err := d.dec.Decode(v)
	if err == nil {
		return nil
	}

	var tokenErr yaml.Error
	if !errors.As(err, &tokenErr) {
		return err //nolint:wrapcheck // io.EOF must reach callers unwrapped.
	}

	return &Error{
		Err:   errors.New(tokenErr.GetMessage()),
		Token: tokenErr.GetToken(),
	}
}

// Unmarshal decodes the first document in data into v.
func Unmarshal(data []byte, v any) error {
	return NewDecoder(bytes.NewReader(data)).Decode(v)
}
