package persist

import (
	"bytes"
	"encoding/gob"
)

// EncodeBinary serializes art with encoding/gob, the standard library's
// own binary codec and the only binary codec used anywhere in the
// example pack.
func EncodeBinary(art *Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(art); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBinary parses a gob-encoded Artifact.
func DecodeBinary(data []byte) (*Artifact, error) {
	var art Artifact
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&art); err != nil {
		return nil, err
	}
	return &art, nil
}
