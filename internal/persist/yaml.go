package persist

import "gopkg.in/yaml.v3"

// EncodeYAML serializes art as YAML.
func EncodeYAML(art *Artifact) ([]byte, error) {
	return yaml.Marshal(art)
}

// DecodeYAML parses a YAML-encoded Artifact.
func DecodeYAML(data []byte) (*Artifact, error) {
	var art Artifact
	if err := yaml.Unmarshal(data, &art); err != nil {
		return nil, err
	}
	return &art, nil
}
