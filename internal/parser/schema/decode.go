package schema

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"json2sql/internal/core"
)

const (
	strTag   = "!!str"
	intTag   = "!!int"
	floatTag = "!!float"
	boolTag  = "!!bool"
	nullTag  = "!!null"
	mapTag   = "!!map"
	seqTag   = "!!seq"
)

// decodeTables converts the document root into the table mapping.
func decodeTables(root *yaml.Node) (*core.OrderedMap[*core.Table], error) {
	tables := core.NewOrderedMap[*core.Table]()
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return tables, nil
		}
		root = root.Content[0]
	}
	if isNull(root) {
		return tables, nil
	}

	err := eachEntry(root, "", func(name string, n *yaml.Node) error {
		t, err := decodeTable(name, n)
		if err != nil {
			return err
		}
		tables.Set(name, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func decodeTable(path string, n *yaml.Node) (*core.Table, error) {
	t := core.NewTable("")
	err := eachEntry(n, path, func(key string, v *yaml.Node) error {
		p := join(path, key)
		switch key {
		case "comment":
			return decodeScalar(p, v, &t.Comment)
		case "isMyisam":
			return decodeScalar(p, v, &t.MyISAM)
		case "fields":
			if isNull(v) {
				return nil
			}
			return eachEntry(v, p, func(name string, fn *yaml.Node) error {
				f, err := decodeField(join(p, name), fn)
				if err != nil {
					return err
				}
				t.Fields.Set(name, f)
				return nil
			})
		case "indexes":
			if isNull(v) {
				return nil
			}
			return eachEntry(v, p, func(name string, in *yaml.Node) error {
				idx, err := decodeIndex(join(p, name), in)
				if err != nil {
					return err
				}
				t.Indexes.Set(name, idx)
				return nil
			})
		default:
			return unknownKey(p)
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func decodeField(path string, n *yaml.Node) (core.Field, error) {
	ft, err := typeTag(path, n, core.ParseFieldType)
	if err != nil {
		return nil, err
	}

	switch ft {
	case core.FieldEnum:
		f := &core.EnumField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			switch key {
			case "comment":
				return decodeScalar(p, v, &f.Comment)
			case "signed":
				return decodeOptional(p, v, &f.Signed)
			case "isNull":
				return decodeOptional(p, v, &f.IsNull)
			case "default":
				return decodeDefault(p, v, &f.Default)
			}
			return unknownKey(p)
		}))
	case core.FieldInteger:
		f := &core.IntegerField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			switch key {
			case "comment":
				return decodeScalar(p, v, &f.Comment)
			case "signed":
				return decodeOptional(p, v, &f.Signed)
			case "isNull":
				return decodeOptional(p, v, &f.IsNull)
			case "default":
				return decodeDefault(p, v, &f.Default)
			case "autoIncrement":
				return decodeOptional(p, v, &f.AutoIncrement)
			}
			return unknownKey(p)
		}))
	case core.FieldNumber:
		f := &core.NumberField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			switch key {
			case "comment":
				return decodeScalar(p, v, &f.Comment)
			case "per1":
				return decodeOptional(p, v, &f.PrecisionTotal)
			case "per2":
				return decodeOptional(p, v, &f.PrecisionFraction)
			case "signed":
				return decodeOptional(p, v, &f.Signed)
			case "isNull":
				return decodeOptional(p, v, &f.IsNull)
			case "default":
				return decodeDefault(p, v, &f.Default)
			}
			return unknownKey(p)
		}))
	case core.FieldString:
		f := &core.StringField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			switch key {
			case "length":
				return decodeScalar(p, v, &f.Length)
			case "comment":
				return decodeScalar(p, v, &f.Comment)
			case "isNull":
				return decodeOptional(p, v, &f.IsNull)
			case "default":
				return decodeDefault(p, v, &f.Default)
			}
			return unknownKey(p)
		}))
	case core.FieldText:
		f := &core.TextField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			if key == "comment" {
				return decodeScalar(p, v, &f.Comment)
			}
			return unknownKey(p)
		}))
	case core.FieldDatetime:
		f := &core.DatetimeField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			switch key {
			case "comment":
				return decodeScalar(p, v, &f.Comment)
			case "isNull":
				return decodeOptional(p, v, &f.IsNull)
			case "isUpdateCurr":
				return decodeOptional(p, v, &f.IsUpdateCurr)
			case "default":
				return decodeDefault(p, v, &f.Default)
			}
			return unknownKey(p)
		}))
	case core.FieldCustom:
		f := &core.CustomField{}
		return checked(f, eachAttr(n, path, func(p, key string, v *yaml.Node) error {
			if key == "rawStr" {
				return decodeScalar(p, v, &f.Raw)
			}
			return unknownKey(p)
		}))
	}
	return nil, fmt.Errorf("%s: %w %q", path, core.ErrUnsupportedFieldType, ft)
}

func decodeIndex(path string, n *yaml.Node) (core.Index, error) {
	it, err := typeTag(path, n, core.ParseIndexType)
	if err != nil {
		return nil, err
	}

	var (
		fields  []string
		comment string
	)
	err = eachAttr(n, path, func(p, key string, v *yaml.Node) error {
		if it == core.IndexPrimary {
			return unknownKey(p)
		}
		switch key {
		case "fields":
			return decodeColumns(p, v, &fields)
		case "comment":
			return decodeScalar(p, v, &comment)
		}
		return unknownKey(p)
	})
	if err != nil {
		return nil, err
	}

	switch it {
	case core.IndexPrimary:
		return &core.PrimaryIndex{}, nil
	case core.IndexUnique:
		return &core.UniqueIndex{Fields: fields, Comment: comment}, nil
	case core.IndexNormal:
		return &core.NormalIndex{Fields: fields, Comment: comment}, nil
	}
	return nil, fmt.Errorf("%s: %w %q", path, core.ErrUnsupportedIndexType, it)
}

func checked(f core.Field, err error) (core.Field, error) {
	if err != nil {
		return nil, err
	}
	return f, nil
}

// decodeColumns accepts a single column name or a list of names.
func decodeColumns(path string, n *yaml.Node, out *[]string) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) {
			return fmt.Errorf("%s: %w: expected column name or list", path, ErrInvalidDescription)
		}
		*out = []string{n.Value}
		return nil
	case yaml.SequenceNode:
		cols := make([]string, 0, len(n.Content))
		for i, item := range n.Content {
			var c string
			if err := decodeScalar(fmt.Sprintf("%s[%d]", path, i), item, &c); err != nil {
				return err
			}
			cols = append(cols, c)
		}
		*out = cols
		return nil
	}
	return fmt.Errorf("%s: %w: expected column name or list", path, ErrInvalidDescription)
}

// typeTag reads the mandatory "type" key of a field or index mapping.
func typeTag[T any](path string, n *yaml.Node, parse func(string) (T, error)) (T, error) {
	var zero T
	if n.Kind != yaml.MappingNode {
		return zero, fmt.Errorf("%s: %w: expected a mapping", path, ErrInvalidDescription)
	}
	tag := lookup(n, "type")
	if tag == nil || tag.Kind != yaml.ScalarNode || isNull(tag) {
		return zero, fmt.Errorf("%s: %w: missing type", path, ErrInvalidDescription)
	}
	v, err := parse(tag.Value)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// eachAttr walks the attributes of a tagged mapping, skipping the "type" key.
func eachAttr(n *yaml.Node, path string, fn func(p, key string, v *yaml.Node) error) error {
	return eachEntry(n, path, func(key string, v *yaml.Node) error {
		if key == "type" {
			return nil
		}
		return fn(join(path, key), key, v)
	})
}

func eachEntry(n *yaml.Node, path string, fn func(key string, v *yaml.Node) error) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: %w: expected a mapping", orRoot(path), ErrInvalidDescription)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func decodeScalar[T any](path string, n *yaml.Node, out *T) error {
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return fmt.Errorf("%s: %w: expected a value", path, ErrInvalidDescription)
	}
	switch any(out).(type) {
	case *int, *int64:
		if !isIntegral(n) {
			return fmt.Errorf("%s: %w: expected an integer, got %s", path, ErrInvalidDescription, n.Value)
		}
	}
	if err := n.Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrInvalidDescription, err)
	}
	return nil
}

// decodeOptional leaves out nil for an explicit null.
func decodeOptional[T any](path string, n *yaml.Node, out **T) error {
	if isNull(n) {
		return nil
	}
	v := new(T)
	if err := decodeScalar(path, n, v); err != nil {
		return err
	}
	*out = v
	return nil
}

// decodeDefault keeps an explicit null apart from a missing key.
func decodeDefault[T any](path string, n *yaml.Node, out *core.Default[T]) error {
	if isNull(n) {
		*out = core.Null[T]()
		return nil
	}
	var v T
	if err := decodeScalar(path, n, &v); err != nil {
		return err
	}
	*out = core.Value(v)
	return nil
}

// isIntegral rejects fractional floats, which yaml.v3 would truncate into integer targets.
func isIntegral(n *yaml.Node) bool {
	if n.ShortTag() != floatTag {
		return true
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	return err == nil && f == math.Trunc(f)
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == nullTag
}

func unknownKey(path string) error {
	return fmt.Errorf("%s: %w: unknown key", path, ErrInvalidDescription)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func orRoot(path string) string {
	if path == "" {
		return "document"
	}
	return path
}
