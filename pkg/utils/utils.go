// Package utils holds small helpers shared by the engine and the API layer:
// schema reflection and order quantity arithmetic.
package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

func GetSchemaFromConfig(config any) (string, error) {
	schema := jsonschema.Reflect(config)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
