package validation

import (
	"bytes"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"$defs": {
		"mark": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"type": "string", "minLength": 1},
				"attrs": {"type": ["object", "null"]}
			}
		},
		"node": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"type": "string", "minLength": 1},
				"attrs": {"type": ["object", "null"]},
				"text": {"type": "string"},
				"marks": {"type": "array", "items": {"$ref": "#/$defs/mark"}},
				"content": {"type": "array", "items": {"$ref": "#/$defs/node"}}
			},
			"if": {"properties": {"type": {"const": "text"}}},
			"then": {"required": ["text"]}
		}
	},
	"$ref": "#/$defs/node",
	"properties": {"type": {"const": "doc"}}
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("document.json")
})

// ValidateJSON проверяет структуру сохраненного документа: корень doc,
// у каждого узла есть тип, у текстовых узлов есть текст.
func ValidateJSON(raw []byte) error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
