package core

import "fmt"

// SchemaMetadata represents schema metadata
type SchemaMetadata struct {
	Name string
}

var (
	CUSTOM_ELEMENTS_SCHEMA = SchemaMetadata{Name: "custom-elements"}
	NO_ERRORS_SCHEMA       = SchemaMetadata{Name: "no-errors-schema"}
)

var knownSchemas = map[string]SchemaMetadata{
	CUSTOM_ELEMENTS_SCHEMA.Name: CUSTOM_ELEMENTS_SCHEMA,
	"CUSTOM_ELEMENTS_SCHEMA":    CUSTOM_ELEMENTS_SCHEMA,
	NO_ERRORS_SCHEMA.Name:       NO_ERRORS_SCHEMA,
	"NO_ERRORS_SCHEMA":          NO_ERRORS_SCHEMA,
}

// LookupSchema resolves a schema by its name or by the name of the constant
// exporting it.
func LookupSchema(name string) (SchemaMetadata, error) {
	if schema, ok := knownSchemas[name]; ok {
		return schema, nil
	}
	return SchemaMetadata{}, fmt.Errorf("unknown schema %q", name)
}

// AllowsUnknownElements reports whether elements not known to the DOM schema
// are tolerated under the given schemas.
func AllowsUnknownElements(schemas []SchemaMetadata) bool {
	for _, schema := range schemas {
		if schema == CUSTOM_ELEMENTS_SCHEMA || schema == NO_ERRORS_SCHEMA {
			return true
		}
	}
	return false
}

// AllowsUnknownProperties reports whether unknown properties are tolerated
// under the given schemas.
func AllowsUnknownProperties(schemas []SchemaMetadata) bool {
	for _, schema := range schemas {
		if schema == NO_ERRORS_SCHEMA {
			return true
		}
	}
	return false
}
