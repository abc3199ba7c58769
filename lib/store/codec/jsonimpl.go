package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotAnObject is returned by Decode if the content is valid json but not an object.
var ErrNotAnObject = errors.New("codec: record is not a json object")

// NewJSONCodec creates a codec writing compact json.
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// NewIndentedJSONCodec creates a codec writing json indented with two spaces.
// Records written by it are read by every json codec.
func NewIndentedJSONCodec() ICodec {
	return &jsonCodecImpl{indent: "  "}
}

// jsonCodecImpl implements the ICodec interface using json encoding
type jsonCodecImpl struct {
	indent string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl) Encode(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	if j.indent == "" {
		return json.Marshal(m)
	}
	return json.MarshalIndent(m, "", j.indent)
}

func (j *jsonCodecImpl) Decode(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	// keep integers exact, float64 can not represent every int64
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotAnObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("codec: unexpected data after record")
	}
	return m, nil
}

func (j *jsonCodecImpl) Extension() string {
	return "json"
}
