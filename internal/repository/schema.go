package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const collectionSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "timestamp", "latitude", "longitude"],
    "properties": {
      "id":          {"type": "integer", "minimum": 1},
      "timestamp":   {"type": "string", "pattern": "^[0-9]{2}/[0-9]{2}/[0-9]{4} [0-9]{2}:[0-9]{2}:[0-9]{2}$"},
      "latitude":    {"type": "number", "minimum": -90, "maximum": 90},
      "longitude":   {"type": "number", "minimum": -180, "maximum": 180},
      "cliente":     {"type": ["string", "null"]},
      "texto_bruto": {"type": "string"}
    }
  }
}`

func compileCollectionSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(collectionSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateCollection checks raw file bytes against the record collection shape.
func validateCollection(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal collection: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("collection does not match schema: %w", err)
	}
	return nil
}
