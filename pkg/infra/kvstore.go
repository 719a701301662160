package infra

import (
	"encoding/json"
)

type KVPair struct {
	Key   string
	Value []byte
}

// KVStore is the small key-value surface the sync state is kept on.
type KVStore interface {
	GetName() string
	Set(k string, v string) error
	Get(k string) (v string, err error)
	// SetAny stores v through the store codec.
	SetAny(k string, v any) error
	GetAny(k string, v any) (found bool, err error)

	List(prefix string) ([]*KVPair, error)
	Delete(k string) error
	Close() error
}

// Codec encodes/decodes Go values to/from slices of bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var JSON = JSONCodec{}

type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
