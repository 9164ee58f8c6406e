// Package schema reads table description files in JSON, YAML or TOML and converts
// them to an ordered mapping of core.Table values. Key order in the file is the
// order of tables, fields and indexes in the result.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"json2sql/internal/core"
)

// ErrInvalidDescription is returned when a description has the wrong shape.
var ErrInvalidDescription = errors.New("invalid description")

// Format is the encoding of a description file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// UnsupportedFormatError is returned for files whose extension is not recognized.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported file format: " + e.Path
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// LoadFile opens the file at path and loads it in the format given by its extension.
func LoadFile(path string) (*core.OrderedMap[*core.Table], error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: open file %q: %w", path, err)
	}
	defer f.Close()

	tables, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// Load reads a description document from r.
func Load(r io.Reader, format Format) (*core.OrderedMap[*core.Table], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read: %w", err)
	}

	var root *yaml.Node
	switch format {
	case FormatJSON:
		root, err = decodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("schema: json decode error: %w", err)
		}
	case FormatYAML:
		root = &yaml.Node{Kind: yaml.DocumentNode}
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(root); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("schema: yaml decode error: %w", err)
		}
	case FormatTOML:
		root, err = decodeTOML(data)
		if err != nil {
			return nil, fmt.Errorf("schema: toml decode error: %w", err)
		}
	default:
		return nil, fmt.Errorf("schema: unknown format %q", format)
	}

	return decodeTables(root)
}
