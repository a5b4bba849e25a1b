package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBase = "https://taskdemo.local/schemas/"

const taskDef = `"task": {
	"type": "object",
	"required": ["id", "clientId", "title", "status", "createdAt", "updatedAt"],
	"properties": {
		"id":          {"type": "string", "minLength": 1},
		"clientId":    {"type": "string"},
		"title":       {"type": "string", "minLength": 1},
		"description": {"type": ["string", "null"]},
		"status":      {"enum": ["todo", "done"]},
		"dueDate":     {"type": ["string", "null"]},
		"externalId":  {"type": ["string", "null"]},
		"createdAt":   {"type": "string"},
		"updatedAt":   {"type": "string"}
	}
}`

var (
	taskSchema = `{"$defs": {` + taskDef + `}, "$ref": "#/$defs/task"}`

	pageSchema = `{
	"$defs": {` + taskDef + `},
	"type": "object",
	"required": ["items", "hasMore"],
	"properties": {
		"items":      {"type": "array", "items": {"$ref": "#/$defs/task"}},
		"nextCursor": {"type": ["string", "null"]},
		"hasMore":    {"type": "boolean"}
	}
}`

	clientsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id":   {"type": "string", "minLength": 1},
			"name": {"type": "string"}
		}
	}
}`

	overdueSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["clientId", "overdueCount"],
		"properties": {
			"clientId":     {"type": "string"},
			"overdueCount": {"type": "integer", "minimum": 0}
		}
	}
}`
)

// schemas are the compiled response contracts.
type schemas struct {
	task    *jsonschema.Schema
	page    *jsonschema.Schema
	clients *jsonschema.Schema
	overdue *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	var s schemas
	for _, item := range []struct {
		name   string
		source string
		dst    **jsonschema.Schema
	}{
		{"task.json", taskSchema, &s.task},
		{"page.json", pageSchema, &s.page},
		{"clients.json", clientsSchema, &s.clients},
		{"overdue.json", overdueSchema, &s.overdue},
	} {
		compiled, err := jsonschema.CompileString(schemaBase+item.name, item.source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.name, err)
		}
		*item.dst = compiled
	}
	return &s, nil
}

// validate checks a raw JSON body against schema.
func validate(schema *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response violates contract: %w", err)
	}
	return nil
}
