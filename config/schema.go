package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the config file.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&Config{})
	s.Title = "termgrid configuration"
	return json.MarshalIndent(s, "", "  ")
}
