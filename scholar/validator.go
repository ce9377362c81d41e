package scholar

import (
	"fmt"
	"reflect"
)

// validatePayload checks a decoded provider object against the top level of its schema:
// required fields must be present and non-null, and present fields must have the declared type.
func validatePayload(schema map[string]any, payload map[string]any) error {
	required, _ := schema["required"].([]string)
	for _, name := range required {
		v, exists := payload[name]
		if !exists || v == nil {
			return fmt.Errorf("missing required field %q", name)
		}
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for name, value := range payload {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue // extra fields are ignored
		}
		expected, ok := prop["type"].(string)
		if !ok {
			continue
		}
		if err := validateType(name, value, expected); err != nil {
			return err
		}
	}
	return nil
}

// validateType covers the top-level field types of the wire payloads; other types pass.
func validateType(name string, value any, expectedType string) error {
	if value == nil {
		return nil // null optional fields get defaults
	}

	actual := reflect.TypeOf(value).Kind()

	switch expectedType {
	case "string":
		if actual != reflect.String {
			return fmt.Errorf("field %q: expected string, got %v", name, actual)
		}
	case "number":
		if actual != reflect.Float64 && actual != reflect.Float32 {
			return fmt.Errorf("field %q: expected number, got %v", name, actual)
		}
	case "array":
		if actual != reflect.Slice && actual != reflect.Array {
			return fmt.Errorf("field %q: expected array, got %v", name, actual)
		}
	}
	return nil
}
