package codec

// ICodec turns a record mapping into its on-disk text and back.
type ICodec interface {
	// Encode encodes a mapping into the stored representation.
	Encode(m map[string]any) ([]byte, error)
	// Decode decodes stored content into a mapping.
	// Content that is not a single object is an error.
	Decode(b []byte) (map[string]any, error)
	// Extension is the file extension (without dot) of records written by this codec.
	Extension() string
}
