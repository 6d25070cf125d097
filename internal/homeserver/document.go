package homeserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Document is a parsed homeserver config whose root is a YAML mapping.
type Document struct {
	root    *yaml.Node // DocumentNode wrapping mapping
	mapping *yaml.Node
}

// Load reads and parses the config at path. A missing file yields an error
// wrapping fs.ErrNotExist; bad content yields an error wrapping ErrParse.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading homeserver config %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a single YAML document with a mapping at the top level.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w: document is empty", ErrParse, ErrNotMapping)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil, fmt.Errorf("%w: multiple documents are not supported", ErrParse)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("%w: %w", ErrParse, ErrNotMapping)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %w: found %s", ErrParse, ErrNotMapping, mapping.ShortTag())
	}

	return &Document{root: &root, mapping: mapping}, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.mapping.Content)/2)
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		keys = append(keys, d.mapping.Content[i].Value)
	}
	return keys
}

// Bool returns the value of a top-level boolean key. ok is false when the
// key is absent or its value is not a YAML boolean.
func (d *Document) Bool(key string) (value, ok bool) {
	node := d.value(key)
	if node == nil {
		return false, false
	}
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" {
		return false, false
	}
	if err := node.Decode(&value); err != nil {
		return false, false
	}
	return value, true
}

// SetBool sets a top-level key to a boolean, replacing whatever value it had
// or appending the key when absent.
//
// Comments attached to the old value node itself are kept: its line comment
// stays on the value, head and foot comments move to the key. Comments on
// nodes nested inside a replaced mapping or sequence are dropped with it.
func (d *Document) SetBool(key string, value bool) {
	found := false
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		k := d.mapping.Content[i]
		if k.Kind != yaml.ScalarNode || k.Value != key {
			continue
		}
		old := d.mapping.Content[i+1]
		walk(old, func(n *yaml.Node) {
			if n.Anchor != "" {
				inlineAliases(d.root, n)
			}
		})
		v := boolNode(value)
		v.LineComment = old.LineComment
		k.HeadComment = joinComments(k.HeadComment, old.HeadComment)
		k.FootComment = joinComments(k.FootComment, old.FootComment)
		d.mapping.Content[i+1] = v
		found = true
	}
	if found {
		return
	}

	// An empty flow mapping ("{}") would otherwise stay on one line.
	d.mapping.Style &^= yaml.FlowStyle
	d.mapping.Content = append(d.mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		boolNode(value),
	)
}

// Marshal renders the document as block-style YAML with two-space indent.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encoding homeserver config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding homeserver config: %w", err)
	}
	return buf.Bytes(), nil
}

// value returns the value node of the last occurrence of key, or nil.
func (d *Document) value(key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		k := d.mapping.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			found = d.mapping.Content[i+1]
		}
	}
	return found
}

// inlineAliases replaces every alias of target under n with an anchor-free
// copy of target so target can be dropped without leaving dangling aliases.
func inlineAliases(n, target *yaml.Node) {
	for i, child := range n.Content {
		if child.Kind == yaml.AliasNode && child.Alias == target {
			n.Content[i] = detached(target)
			continue
		}
		inlineAliases(child, target)
	}
}

// detached deep-copies n without anchors. Aliases inside the copy still
// point at their original targets.
func detached(n *yaml.Node) *yaml.Node {
	c := *n
	c.Anchor = ""
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = detached(child)
		}
	}
	return &c
}

// walk calls fn for n and every node below it, parents first.
func walk(n *yaml.Node, fn func(*yaml.Node)) {
	fn(n)
	for _, child := range n.Content {
		walk(child, fn)
	}
}

func joinComments(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}

func boolNode(value bool) *yaml.Node {
	s := "false"
	if value {
		s = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
}
