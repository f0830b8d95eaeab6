package codec

import (
	"encoding/json"
	"fmt"
)

// Encode renders the document as deterministic CBOR. Encoding the same
// document twice yields byte-identical output.
func Encode(doc *Document) ([]byte, error) {
	return encMode.Marshal(doc)
}

// Decode parses a CBOR document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// EncodeJSON renders the document as compact JSON, the debugging rendering
// of the same schema.
func EncodeJSON(doc *Document) ([]byte, error) {
	return json.Marshal(doc)
}

// DecodeJSON parses a JSON document.
func DecodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}
