package schemas

import (
	"encoding/json"
	"fmt"
)

// structuredResumeSchema type-checks the sections the template pipeline
// edits. The document stays a generic JSON tree because templates differ in
// which fields they use; the schema only guards section shapes.
const structuredResumeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "contact": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "location": {"type": "string"},
        "linkedin": {"type": "string"}
      }
    },
    "summary": {"type": "string"},
    "experience": {"type": "array", "items": {"type": "object"}},
    "education": {"type": "array", "items": {"type": "object"}},
    "skills": {"type": "array"},
    "projects": {"type": "array", "items": {"type": "object"}},
    "certifications": {"type": "array"}
  }
}`

// ParseStructuredResume validates raw structured-resume bytes and returns the
// decoded JSON tree for path-based editing.
func ParseStructuredResume(data []byte) (map[string]any, error) {
	if err := ValidateString("structured_resume", structuredResumeSchema, string(data)); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode structured resume: %w", err)
	}
	return doc, nil
}
