package document

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["srs", "frd", "brd", "umlDiagrams"],
	"properties": {
		"srs": {"type": "string", "minLength": 1},
		"frd": {"type": "string", "minLength": 1},
		"brd": {"type": "string", "minLength": 1},
		"umlDiagrams": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["content"],
				"properties": {
					"title": {"type": "string"},
					"type": {"type": "string"},
					"content": {"type": "string"}
				}
			}
		}
	}
}`

const taskListSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["title"],
		"properties": {
			"id": {"type": "string"},
			"title": {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"priority": {"type": "string"},
			"estimateHours": {"type": "number"}
		}
	}
}`

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)
)

func compiledSchema(name, source string) (*jsonschema.Schema, error) {
	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if sch, ok := schemaCache[name]; ok {
		return sch, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, err
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, err
	}
	schemaCache[name] = sch
	return sch, nil
}

func validate(name, source string, data []byte) error {
	sch, err := compiledSchema(name, source)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}

// ParseDocument decodes and validates a document payload. The normalizer
// guarantees the bytes parse; this adds the required-field contract.
func ParseDocument(data []byte) (*Document, error) {
	if err := validate("document.schema.json", documentSchema, data); err != nil {
		return nil, fmt.Errorf("document payload invalid: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseTasks decodes and validates a task breakdown payload. Models return
// either a bare array or a {"tasks": [...]} wrapper; both are accepted.
func ParseTasks(data []byte) ([]Task, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Tasks json.RawMessage `json:"tasks"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		if len(wrapper.Tasks) == 0 {
			return nil, fmt.Errorf("task payload has no tasks field")
		}
		data = wrapper.Tasks
	}

	if err := validate("tasks.schema.json", taskListSchema, data); err != nil {
		return nil, fmt.Errorf("task payload invalid: %w", err)
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = fmt.Sprintf("T%d", i+1)
		}
	}
	return tasks, nil
}

// ParseAssignments decodes an assignment payload, accepting either a bare
// array or an {"assignments": [...]} wrapper.
func ParseAssignments(data []byte) ([]Assignment, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Assignments json.RawMessage `json:"assignments"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		if len(wrapper.Assignments) == 0 {
			return nil, fmt.Errorf("assignment payload has no assignments field")
		}
		data = wrapper.Assignments
	}
	var assignments []Assignment
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, fmt.Errorf("assignment payload is empty")
	}
	return assignments, nil
}
