package schema

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// tomlFile is the top-level TOML description. Arrays of tables keep the
// declaration order of tables, fields and indexes.
//
//	[[tables]]
//	name = "user"
//	comment = "用户表"
//
//	  [[tables.fields]]
//	  name = "nickname"
//	  type = "string"
//	  length = 20
//	  default_null = true
type tomlFile struct {
	Tables []tomlTable `toml:"tables"`
}

// tomlTable maps [[tables]].
type tomlTable struct {
	Name    string           `toml:"name"`
	Comment string           `toml:"comment"`
	MyISAM  *bool            `toml:"is_myisam"`
	Fields  []map[string]any `toml:"fields"`
	Indexes []map[string]any `toml:"indexes"`
}

// tomlDefaultNull stands in for an explicit null default, which TOML cannot express.
const tomlDefaultNull = "default_null"

// decodeTOML converts a TOML description into the node tree the JSON and YAML
// loaders produce.
func decodeTOML(data []byte) (*yaml.Node, error) {
	var tf tomlFile
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&tf)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidDescription, strings.Join(keys, ", "))
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	seen := make(map[string]bool, len(tf.Tables))
	for i, tt := range tf.Tables {
		if tt.Name == "" {
			return nil, fmt.Errorf("tables[%d]: %w: name is required", i, ErrInvalidDescription)
		}
		if seen[tt.Name] {
			return nil, fmt.Errorf("tables[%d]: %w: duplicate table %q", i, ErrInvalidDescription, tt.Name)
		}
		seen[tt.Name] = true

		table, err := tt.node()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tt.Name, err)
		}
		root.Content = append(root.Content, scalar(strTag, tt.Name), table)
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}, nil
}

func (tt *tomlTable) node() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	n.Content = append(n.Content, scalar(strTag, "comment"), scalar(strTag, tt.Comment))
	if tt.MyISAM != nil {
		n.Content = append(n.Content, scalar(strTag, "isMyisam"), scalar(boolTag, strconv.FormatBool(*tt.MyISAM)))
	}

	fields, err := namedEntries("fields", tt.Fields)
	if err != nil {
		return nil, err
	}
	if fields != nil {
		n.Content = append(n.Content, scalar(strTag, "fields"), fields)
	}

	indexes, err := namedEntries("indexes", tt.Indexes)
	if err != nil {
		return nil, err
	}
	if indexes != nil {
		n.Content = append(n.Content, scalar(strTag, "indexes"), indexes)
	}
	return n, nil
}

// namedEntries turns a list of attribute tables carrying a "name" key into a
// mapping from that name to the remaining attributes.
func namedEntries(section string, entries []map[string]any) (*yaml.Node, error) {
	if entries == nil {
		return nil, nil
	}
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
	for i, attrs := range entries {
		name, ok := attrs["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%s[%d]: %w: name is required", section, i, ErrInvalidDescription)
		}

		entry := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
		for _, key := range slices.Sorted(maps.Keys(attrs)) {
			if key == "name" {
				continue
			}
			if key == tomlDefaultNull {
				if isNull, ok := attrs[key].(bool); !ok || !isNull {
					return nil, fmt.Errorf("%s.%s.%s: %w: must be true when set", section, name, key, ErrInvalidDescription)
				}
				if _, ok := attrs["default"]; ok {
					return nil, fmt.Errorf("%s.%s: %w: default and %s are exclusive", section, name, ErrInvalidDescription, tomlDefaultNull)
				}
				entry.Content = append(entry.Content, scalar(strTag, "default"), scalar(nullTag, "null"))
				continue
			}
			v, err := tomlValue(attrs[key])
			if err != nil {
				return nil, fmt.Errorf("%s.%s.%s: %w", section, name, key, err)
			}
			entry.Content = append(entry.Content, scalar(strTag, key), v)
		}
		n.Content = append(n.Content, scalar(strTag, name), entry)
	}
	return n, nil
}

func tomlValue(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case string:
		return scalar(strTag, v), nil
	case int64:
		return scalar(intTag, strconv.FormatInt(v, 10)), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: %v is not a valid number", ErrInvalidDescription, v)
		}
		return scalar(floatTag, strconv.FormatFloat(v, 'g', -1, 64)), nil
	case bool:
		return scalar(boolTag, strconv.FormatBool(v)), nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag}
		for _, item := range v {
			child, err := tomlValue(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			child, err := tomlValue(v[key])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar(strTag, key), child)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidDescription, v)
	}
}
