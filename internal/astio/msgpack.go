package astio

import (
	"bytes"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// DecodeMsgpack parses a msgpack document.
func DecodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeMsgpack writes doc in the .astpack form.
func EncodeMsgpack(w io.Writer, doc *Document) error {
	return msgpack.NewEncoder(w).Encode(doc)
}

// MarshalMsgpack returns the .astpack bytes of doc.
func MarshalMsgpack(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
