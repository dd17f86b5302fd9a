package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML schema document with the same semantics as Parse.
func ParseYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &s, nil
}

type yamlSchema struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Type        Types              `yaml:"type"`
	Properties  yaml.Node          `yaml:"properties"`
	Required    []string           `yaml:"required"`
	Enum        []any              `yaml:"enum"`
	Items       *Schema            `yaml:"items"`
	AnyOf       []*Schema          `yaml:"anyOf"`
	OneOf       []*Schema          `yaml:"oneOf"`
	Ref         string             `yaml:"$ref"`
	Defs        map[string]*Schema `yaml:"$defs"`
	Definitions map[string]*Schema `yaml:"definitions"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Schema) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		*s = *Bool(b)
		return nil
	}
	var raw yamlSchema
	if err := n.Decode(&raw); err != nil {
		return err
	}
	props, err := yamlProperties(&raw.Properties)
	if err != nil {
		return err
	}
	*s = Schema{
		Title:       raw.Title,
		Description: raw.Description,
		Type:        raw.Type,
		Properties:  props,
		Required:    raw.Required,
		Enum:        enumNames(raw.Enum),
		Items:       raw.Items,
		AnyOf:       append(raw.AnyOf, raw.OneOf...),
		Ref:         raw.Ref,
		Defs:        raw.Defs,
		LegacyDefs:  raw.Definitions,
	}
	return nil
}

// yamlProperties walks the mapping node pairwise so document order survives.
func yamlProperties(n *yaml.Node) ([]Property, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.New("properties must be a mapping")
	}
	out := make([]Property, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		ps := new(Schema)
		if err := n.Content[i+1].Decode(ps); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: ps})
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Types) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*t = Types{n.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := n.Decode(&many); err != nil {
			return err
		}
		*t = Types(many)
		return nil
	}
	return errors.New("type must be a string or a list of strings")
}
