package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeJSON tokenizes a JSON document into a yaml.Node tree so that both
// formats share one decoder and object key order survives.
func decodeJSON(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &yaml.Node{Kind: yaml.DocumentNode}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}, nil
}

func readNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", v, dec.InputOffset())
	case string:
		return scalar(strTag, v), nil
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return scalar(floatTag, v.String()), nil
		}
		return scalar(intTag, v.String()), nil
	case bool:
		return scalar(boolTag, strconv.FormatBool(v)), nil
	case nil:
		return scalar(nullTag, "null"), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func readObject(dec *json.Decoder) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := readNode(dec)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, scalar(strTag, key), val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func readArray(dec *json.Decoder) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag}
	for dec.More() {
		val, err := readNode(dec)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
