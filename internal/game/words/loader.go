package words

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlWordsFile is the top-level YAML structure for word-list files.
type yamlWordsFile struct {
	Words []string `yaml:"words"`
}

// LoadFromFile reads and validates a word-list YAML file.
//
// Precondition: path must point to a valid YAML word-list file.
// Postcondition: Returns a validated List or a non-nil error.
func LoadFromFile(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading words file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a word list from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the word-list schema.
// Postcondition: Returns a validated List or a non-nil error.
func LoadFromBytes(data []byte) (*List, error) {
	var f yamlWordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing words yaml: %w", err)
	}
	list, err := NewList(f.Words)
	if err != nil {
		return nil, fmt.Errorf("validating words yaml: %w", err)
	}
	return list, nil
}
