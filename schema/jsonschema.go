package schema

import _ "embed"

//go:embed data-model-v1.schema.json
var jsonSchemaV1 []byte

// JSONSchema returns the draft-07 JSON schema describing version 1 of the
// data model DSL, for editor integration.
func JSONSchema() []byte {
	return append([]byte(nil), jsonSchemaV1...)
}
