package api

import (
	"encoding/json"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/encoding"
)

// Codec marshals messages as JSON. It is registered under the "json"
// content-subtype, so requests travel as application/grpc+json.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return common.JSONContentSubtype
}

func init() {
	encoding.RegisterCodec(Codec{})
}
