package schemas

import (
	"encoding/json"
	"fmt"
)

// analysisResultSchema is the partial schema for the analysis payload. Every
// field is optional; the schema only rejects payloads whose known fields have
// the wrong type, so the view layer can rely on the narrowed structs instead
// of optional-chaining through raw JSON.
const analysisResultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "analysis_id": {"type": "string"},
    "overall_score": {"type": "number"},
    "credits_remaining": {"type": "integer"},
    "match_analysis": {
      "type": "object",
      "properties": {
        "match_percentage": {"type": "number"},
        "matched_keywords": {"type": "array", "items": {"type": "string"}},
        "missing_keywords": {"type": "array", "items": {"type": "string"}},
        "summary": {"type": "string"}
      }
    },
    "score_breakdown": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    },
    "recommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "priority": {"type": "string"},
          "section": {"type": "string"}
        }
      }
    },
    "strengths": {"type": "array", "items": {"type": "string"}},
    "gaps": {"type": "array", "items": {"type": "string"}}
  }
}`

// AnalysisResult is the narrowed analysis payload. All fields are optional;
// pointer fields distinguish absent from zero.
type AnalysisResult struct {
	AnalysisID       string             `json:"analysis_id,omitempty"`
	OverallScore     *float64           `json:"overall_score,omitempty"`
	CreditsRemaining *int               `json:"credits_remaining,omitempty"`
	MatchAnalysis    *MatchAnalysis     `json:"match_analysis,omitempty"`
	ScoreBreakdown   map[string]float64 `json:"score_breakdown,omitempty"`
	Recommendations  []Recommendation   `json:"recommendations,omitempty"`
	Strengths        []string           `json:"strengths,omitempty"`
	Gaps             []string           `json:"gaps,omitempty"`
}

// MatchAnalysis summarizes keyword overlap between resume and job description.
type MatchAnalysis struct {
	MatchPercentage *float64 `json:"match_percentage,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// Recommendation is a single suggested resume improvement.
type Recommendation struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Section     string `json:"section,omitempty"`
}

// ParseAnalysisResult validates raw payload bytes against the partial schema
// and unmarshals them into the narrowed struct.
func ParseAnalysisResult(data []byte) (*AnalysisResult, error) {
	if err := ValidateString("analysis_result", analysisResultSchema, string(data)); err != nil {
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}
