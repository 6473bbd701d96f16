package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlField mirrors the serialized descriptor shape:
//
//	id:      {type: string, key: User_ID, primary: true}
//	age:     {type: integer, default: 18}
//	tags:    {type: array, itemType: string}
//	address: {type: object, properties: {city: {type: string}}}
type yamlField struct {
	Type       string               `yaml:"type"`
	Key        string               `yaml:"key"`
	Primary    bool                 `yaml:"primary"`
	Default    any                  `yaml:"default"`
	ItemType   string               `yaml:"itemType"`
	Properties map[string]yamlField `yaml:"properties"`
}

// ParseYAML loads a descriptor set from its YAML form and validates it.
// Defaults declared in YAML are literals; generator defaults can only be
// attached in code via WithDefaultFunc.
func ParseYAML(data []byte) (Fields, error) {
	var raw map[string]yamlField
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	fs, err := fieldsFromYAML(raw, "")
	if err != nil {
		return nil, err
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	return fs, nil
}

func fieldsFromYAML(raw map[string]yamlField, path string) (Fields, error) {
	fs := make(Fields, len(raw))
	for name, yf := range raw {
		at := path + name
		kind, ok := KindOf(yf.Type)
		if !ok {
			return nil, fmt.Errorf("schema: field %q: unknown type %q", at, yf.Type)
		}
		f := Field{Kind: kind, Key: yf.Key, Primary: yf.Primary}
		if yf.Default != nil {
			f = f.WithDefault(yf.Default)
		}
		if yf.ItemType != "" {
			item, ok := KindOf(yf.ItemType)
			if !ok {
				return nil, fmt.Errorf("schema: field %q: unknown itemType %q", at, yf.ItemType)
			}
			f.Item = item
		}
		if len(yf.Properties) > 0 {
			sub, err := fieldsFromYAML(yf.Properties, at+".")
			if err != nil {
				return nil, err
			}
			f.Object = sub
		}
		fs[name] = f
	}
	return fs, nil
}
