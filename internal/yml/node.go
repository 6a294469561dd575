// Package yml provides ordered traversal helpers over yaml.v3 nodes, so that
// configuration mappings keep their declaration order.
package yml

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node wraps yaml.Node
type Node yaml.Node

// Root returns the document content node
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// IsMap returns true for mapping nodes
func (n *Node) IsMap() bool { return n.Kind == yaml.MappingNode }

// IsSequence returns true for sequence nodes
func (n *Node) IsSequence() bool { return n.Kind == yaml.SequenceNode }

// IsNull returns true for null scalars
func (n *Node) IsNull() bool { return n.Kind == yaml.ScalarNode && n.Tag == "!!null" }

// Lookup returns the value node of a mapping key (case-insensitive)
func (n *Node) Lookup(name string) *Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, name) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates sequence items
func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i, item := range n.Content {
		if err := callback(i, (*Node)(item)); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping pairs in declaration order
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// String returns scalar text
func (n *Node) String() string {
	return n.Value
}

// Strings returns sequence items or a single scalar as strings, non-string
// items are reported as error
func (n *Node) Strings() ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.IsNull() {
			return nil, nil
		}
		if n.Tag != "!!str" {
			return nil, fmt.Errorf("expected string, got %v", n.Value)
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		ret := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return nil, fmt.Errorf("expected string item, got %v", (*Node)(item).Interface())
			}
			ret = append(ret, item.Value)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("expected sequence, got %v", n.Interface())
}

// Interface converts the node into plain Go values
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.DocumentNode:
		return n.Root().Interface()
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			return strings.EqualFold(n.Value, "true")
		case "!!null":
			return nil
		case "!!float":
			value, _ := strconv.ParseFloat(n.Value, 64)
			return value
		case "!!int":
			value, _ := strconv.Atoi(n.Value)
			return value
		default:
			return n.Value
		}
	case yaml.MappingNode:
		ret := make(map[string]interface{}, len(n.Content)/2)
		_ = n.Pairs(func(key string, node *Node) error {
			ret[key] = node.Interface()
			return nil
		})
		return ret
	case yaml.SequenceNode:
		ret := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			ret = append(ret, (*Node)(item).Interface())
		}
		return ret
	case yaml.AliasNode:
		if n.Alias != nil {
			return (*Node)(n.Alias).Interface()
		}
	}
	return nil
}
