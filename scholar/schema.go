package scholar

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

// Wire payloads the provider is asked to return. Fields tagged omitempty are optional
// and get defaults during normalization; the others are required.

type summaryPayload struct {
	Summary            string        `json:"summary" description:"Concise summary of the lecture"`
	KeyPoints          []string      `json:"keyPoints,omitempty" description:"Key points in lecture order"`
	CodeSnippets       []CodeSnippet `json:"codeSnippets,omitempty" description:"Code shown or dictated in the lecture"`
	Topics             []string      `json:"topics,omitempty" description:"Topics covered"`
	Questions          []string      `json:"questions,omitempty" description:"Review questions a student should be able to answer"`
	LearningObjectives []string      `json:"learningObjectives,omitempty" description:"What a student should be able to do after the lecture"`
}

type qaPayload struct {
	Answer           string   `json:"answer" description:"Answer grounded in the document"`
	RelevantSections []string `json:"relevantSections,omitempty" description:"Verbatim passages of the document that support the answer"`
	Confidence       *float64 `json:"confidence,omitempty" description:"Confidence in the answer between 0 and 1"`
}

type exercisePayload struct {
	Title        string     `json:"title" description:"Short exercise title"`
	Description  string     `json:"description" description:"Problem statement"`
	Instructions []string   `json:"instructions,omitempty" description:"Step by step instructions"`
	StarterCode  string     `json:"starterCode,omitempty" description:"Code the student starts from"`
	Solution     string     `json:"solution" description:"Complete reference solution"`
	Hints        []string   `json:"hints,omitempty" description:"Progressive hints, least revealing first"`
	TestCases    []TestCase `json:"testCases,omitempty" description:"Input and expected output pairs"`
}

type explanationPayload struct {
	Explanation   string   `json:"explanation" description:"Markdown explanation of what the code does"`
	KeyComponents []string `json:"keyComponents,omitempty" description:"Important constructs used in the code"`
	Improvements  []string `json:"improvements,omitempty" description:"Concrete suggestions to improve the code"`
	UseCases      []string `json:"useCases,omitempty" description:"Where this pattern is commonly used"`
}

var (
	summarySchema     = mustSchema(summaryPayload{})
	qaSchema          = mustSchema(qaPayload{})
	exerciseSchema    = mustSchema(exercisePayload{})
	explanationSchema = mustSchema(explanationPayload{})
)

func mustSchema(v any) map[string]any {
	schema, err := generateSchemaFromStruct(reflect.TypeOf(v))
	if err != nil {
		panic(err)
	}
	return schema
}

// schemaJSON renders a schema for embedding in a system instruction.
func schemaJSON(schema map[string]any) string {
	b, _ := json.Marshal(schema)
	return string(b)
}

// generateSchemaFromStruct creates a JSON schema object from a Go struct using reflection and tags.
// Fields without omitempty are listed as required.
func generateSchemaFromStruct(t reflect.Type) (map[string]any, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.New("type must be a struct")
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
			if !contains(parts[1:], "omitempty") {
				required = append(required, fieldName)
			}
		} else {
			required = append(required, fieldName)
		}

		fieldSchema := typeToSchema(field.Type)
		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema["description"] = desc
		}
		properties[fieldName] = fieldSchema
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

// typeToSchema maps a Go reflect.Type to a JSON schema fragment.
func typeToSchema(t reflect.Type) map[string]any {
	schema := make(map[string]any)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		schema["type"] = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		schema["items"] = typeToSchema(t.Elem())
	case reflect.Struct:
		nested, _ := generateSchemaFromStruct(t)
		return nested
	case reflect.Map:
		schema["type"] = "object"
	default:
		schema["type"] = "string"
	}
	return schema
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
