package persist

import "encoding/json"

// EncodeJSON serializes art as JSON, indented unless minify is set.
func EncodeJSON(art *Artifact, minify bool) ([]byte, error) {
	if minify {
		return json.Marshal(art)
	}
	return json.MarshalIndent(art, "", "  ")
}

// DecodeJSON parses a JSON-encoded Artifact.
func DecodeJSON(data []byte) (*Artifact, error) {
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, err
	}
	return &art, nil
}
