// Package yamlval maps YAML documents onto the bson value model, for
// fixture and configuration ingestion. Mappings become Documents,
// sequences become Arrays, and tagged scalars become the matching
// scalar kinds (!!binary -> Binary, !!timestamp -> DateTime).
package yamlval

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docwire/bson"
)

// Decode converts a single YAML document into a bson Document. The YAML
// root must be a mapping. Duplicate mapping keys follow Put semantics:
// the last occurrence wins.
func Decode(data []byte) (*bson.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &bson.Error{Code: bson.CodeSyntax, Message: "invalid YAML", Offset: -1, Cause: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return bson.NewDocument(), nil
	}
	v, err := nodeToValue(root.Content[0])
	if err != nil {
		return nil, err
	}
	d, ok := v.(*bson.Document)
	if !ok {
		return nil, syntax(root.Content[0], "YAML root must be a mapping, not %v", v.Type())
	}
	return d, nil
}

// DecodeAll converts a multi-document YAML stream, one Document per
// YAML document.
func DecodeAll(r io.Reader) ([]*bson.Document, error) {
	dec := yaml.NewDecoder(r)
	var out []*bson.Document
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, &bson.Error{Code: bson.CodeSyntax, Message: "invalid YAML", Offset: -1, Cause: err}
		}
		if len(root.Content) == 0 {
			continue
		}
		v, err := nodeToValue(root.Content[0])
		if err != nil {
			return nil, err
		}
		d, ok := v.(*bson.Document)
		if !ok {
			return nil, syntax(root.Content[0], "YAML root must be a mapping, not %v", v.Type())
		}
		out = append(out, d)
	}
}

func syntax(n *yaml.Node, format string, a ...any) *bson.Error {
	msg := fmt.Sprintf(format, a...)
	if n != nil {
		msg = fmt.Sprintf("%s (line %d, column %d)", msg, n.Line, n.Column)
	}
	return &bson.Error{Code: bson.CodeSyntax, Message: msg, Offset: -1}
}

func nodeToValue(n *yaml.Node) (bson.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return bson.Null{}, nil
		}
		return nodeToValue(n.Content[0])
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	case yaml.MappingNode:
		d := bson.NewDocument()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, syntax(k, "mapping keys must be scalars")
			}
			v, err := nodeToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, err := d.Put(k.Value, v); err != nil {
				return nil, err
			}
		}
		return d, nil
	case yaml.SequenceNode:
		a := bson.NewArray()
		for _, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return nil, err
			}
			a.Append(v)
		}
		return a, nil
	case yaml.ScalarNode:
		return scalarToValue(n)
	}
	return nil, syntax(n, "unsupported YAML node kind")
}

func scalarToValue(n *yaml.Node) (bson.Value, error) {
	switch n.Tag {
	case "!!null":
		return bson.Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, syntax(n, "invalid boolean %q", n.Value)
		}
		return bson.Boolean(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, syntax(n, "invalid integer %q", n.Value)
		}
		if i >= -1<<31 && i < 1<<31 {
			return bson.Int32(i), nil
		}
		return bson.Int64(i), nil
	case "!!float":
		// YAML spells infinities and NaN its own way.
		switch n.Value {
		case ".inf", "+.inf", ".Inf", "+.Inf":
			return bson.Double(math.Inf(1)), nil
		case "-.inf", "-.Inf":
			return bson.Double(math.Inf(-1)), nil
		case ".nan", ".NaN":
			return bson.Double(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, syntax(n, "invalid float %q", n.Value)
		}
		return bson.Double(f), nil
	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return nil, syntax(n, "invalid !!binary payload")
		}
		return bson.Binary{Subtype: bson.BinaryGeneric, Data: data}, nil
	case "!!timestamp":
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, n.Value); err == nil {
				return bson.NewDateTime(t), nil
			}
		}
		return nil, syntax(n, "invalid !!timestamp %q", n.Value)
	default:
		return bson.String(n.Value), nil
	}
}
