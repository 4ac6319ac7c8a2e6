package gemx

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// GenerateSchema is a helper to derive the schema definition for
// [Tool.InputSchema] from a Go struct type.
func GenerateSchema[T any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for type: %w", err)
	}
	// Set additionalProperties to false (disallow additional properties)
	if schema.AdditionalProperties == nil {
		schema.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}
	return schema, nil
}

// Tool declares a function the model may call during generation. Each tool
// has a name, a description, and a JSON schema describing its parameters.
//
// A simple tool with a single required string parameter:
//
//	{
//	    Name:        "get_weather",
//	    Description: "Get the current weather in a given location",
//	    InputSchema: &jsonschema.Schema{
//	        Type: "object",
//	        Properties: map[string]*jsonschema.Schema{
//	            "location": {
//	                Type:        "string",
//	                Description: "The city and state, e.g. San Francisco, CA",
//	            },
//	        },
//	        Required: []string{"location"},
//	    },
//	}
//
// A tool with no parameters:
//
//	{
//	    Name:        "get_server_time",
//	    Description: "Get the current server time in UTC.",
//	    InputSchema: nil, // or omit the field entirely
//	}
type Tool struct {
	// Name is the identifier used to reference this tool.
	// It should be unique among all tools registered on a Session.
	Name string

	// Description explains what the tool does. This helps the model decide
	// when and how to use the tool.
	Description string

	// InputSchema defines the parameters this tool accepts using JSON Schema.
	// A nil value indicates no parameters are accepted. The root schema must
	// be of type "object" when present.
	InputSchema *jsonschema.Schema
}

// registeredTool pairs the wire-format declaration with the resolved schema
// used to validate model-produced arguments.
type registeredTool struct {
	decl     *genai.FunctionDeclaration
	resolved *jsonschema.Resolved
}

func compileTool(tool Tool) (*registeredTool, error) {
	decl := &genai.FunctionDeclaration{
		Name:        tool.Name,
		Description: tool.Description,
	}
	rt := &registeredTool{decl: decl}
	if tool.InputSchema == nil {
		return rt, nil
	}
	if tool.InputSchema.Type != "object" {
		return nil, fmt.Errorf("input schema root must be an object, got %q", tool.InputSchema.Type)
	}
	params, err := toGenaiSchema(tool.InputSchema)
	if err != nil {
		return nil, err
	}
	decl.Parameters = params

	resolved, err := tool.InputSchema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving input schema: %w", err)
	}
	rt.resolved = resolved
	return rt, nil
}

// validateArgs checks model-produced arguments against the registered schema.
// Tools registered without a schema accept anything.
func (rt *registeredTool) validateArgs(args map[string]any) error {
	if rt.resolved == nil {
		return nil
	}
	return rt.resolved.Validate(args)
}

// toGenaiSchema maps a JSON schema to the API's schema representation. Only
// the subset of JSON Schema the API understands is supported: scalar types,
// enums, arrays, and nested objects.
func toGenaiSchema(s *jsonschema.Schema) (*genai.Schema, error) {
	if s == nil {
		return nil, nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case "string":
		out.Type = genai.TypeString
		for _, e := range s.Enum {
			v, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("non-string enum value %v in string schema", e)
			}
			out.Enum = append(out.Enum, v)
		}
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
		if s.Items != nil {
			items, err := toGenaiSchema(s.Items)
			if err != nil {
				return nil, err
			}
			out.Items = items
		}
	case "object":
		out.Type = genai.TypeObject
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			for name, prop := range s.Properties {
				ps, err := toGenaiSchema(prop)
				if err != nil {
					return nil, fmt.Errorf("property %s: %w", name, err)
				}
				out.Properties[name] = ps
			}
		}
		out.Required = s.Required
	default:
		return nil, fmt.Errorf("unsupported schema type: %q", s.Type)
	}
	return out, nil
}
