package registry

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the registry YAML and returns it with the raw bytes.
// KnownFields(true) turns typos and stale fields into immediate
// failures instead of silently ignored configuration.
func Load(path string) (*Registry, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var reg Registry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&reg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&reg); err != nil {
		return nil, data, err
	}

	return &reg, data, nil
}

// Hash generates a SHA256 hash of the registry (canonical JSON).
// Structs, not maps, keep the field order deterministic. The hash is
// recorded in run_summary.json so a result set can be traced back to
// the exact configuration that produced it.
func Hash(reg *Registry) (string, error) {
	jsonBytes, err := json.Marshal(reg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
