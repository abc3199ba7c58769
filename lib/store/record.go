package store

import "fmt"

// MappingRecord is a Storable for records without a Go type,
// e.g. records read from the command line.
type MappingRecord struct {
	// KeyField names the entry of Data holding the key.
	KeyField string
	Data     Mapping
}

// NewMappingRecord creates a record and sets its key field to key.
func NewMappingRecord(keyField string, key any, data Mapping) *MappingRecord {
	out := make(Mapping, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out[keyField] = key
	return &MappingRecord{KeyField: keyField, Data: out}
}

func (r *MappingRecord) StorageKey() (any, error) {
	if r.KeyField == "" {
		return nil, NewError(RetCMissingKey, "record declares no key field")
	}
	key, ok := r.Data[r.KeyField]
	if !ok {
		return nil, NewError(RetCMissingKey, fmt.Sprintf("missing key field %q", r.KeyField))
	}
	return key, nil
}

func (r *MappingRecord) StorageMapping() (Mapping, error) {
	return r.Data, nil
}
