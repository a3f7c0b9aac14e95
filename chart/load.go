package chart

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Descriptor file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for descriptor files with an unrecognised extension.
var ErrUnknownFormat = errors.New("unknown chart file format")

//go:embed data/integer_parsing.yaml
var embedded embed.FS

// document is the on-disk wrapper around a list of descriptors.
type document struct {
	Charts []Descriptor `yaml:"charts" toml:"charts" json:"charts"`
}

// FormatOf returns the descriptor format implied by the file extension of path.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads and validates every descriptor in the file at path.
//
// Parameters:
//   - path: a .yaml/.yml, .toml or .json file holding a `charts` list
//
// Returns:
//   - []Descriptor: the descriptors in file order
//   - error: a read, decode or validation error
func Load(path string) ([]Descriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read charts: %w", err)
	}
	descs, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return descs, nil
}

// Decode parses and validates descriptors in the given format.
// JSON also accepts a bare top-level array.
func Decode(data []byte, format string) ([]Descriptor, error) {
	var doc document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &doc.Charts)
		} else {
			err = json.Unmarshal(data, &doc)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	var errs []error
	for _, d := range doc.Charts {
		errs = append(errs, d.Validate())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc.Charts, nil
}

// Embedded returns the integer parsing benchmark charts shipped with the binary.
func Embedded() []Descriptor {
	data, err := embedded.ReadFile("data/integer_parsing.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded charts missing: %v", err))
	}
	descs, err := Decode(data, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded charts invalid: %v", err))
	}
	return descs
}
