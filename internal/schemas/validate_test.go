package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisResult_FullPayload(t *testing.T) {
	payload := `{
		"analysis_id": "a-123",
		"overall_score": 78.5,
		"credits_remaining": 1,
		"match_analysis": {
			"match_percentage": 64,
			"matched_keywords": ["go", "postgres"],
			"missing_keywords": ["kubernetes"],
			"summary": "Good overlap."
		},
		"score_breakdown": {"keywords": 70, "formatting": 90},
		"recommendations": [
			{"title": "Add metrics", "description": "Quantify impact.", "priority": "high"}
		],
		"strengths": ["clear structure"],
		"gaps": ["no certifications"]
	}`

	result, err := ParseAnalysisResult([]byte(payload))
	require.NoError(t, err)

	require.NotNil(t, result.OverallScore)
	assert.InDelta(t, 78.5, *result.OverallScore, 0.001)
	require.NotNil(t, result.CreditsRemaining)
	assert.Equal(t, 1, *result.CreditsRemaining)
	require.NotNil(t, result.MatchAnalysis)
	assert.Equal(t, []string{"go", "postgres"}, result.MatchAnalysis.MatchedKeywords)
	assert.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Add metrics", result.Recommendations[0].Title)
}

func TestParseAnalysisResult_EmptyPayload(t *testing.T) {
	// Every field is optional: an empty object is a valid result.
	result, err := ParseAnalysisResult([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, result.OverallScore)
	assert.Nil(t, result.MatchAnalysis)
}

func TestParseAnalysisResult_UnknownFieldsIgnored(t *testing.T) {
	result, err := ParseAnalysisResult([]byte(`{"overall_score": 50, "experimental": {"x": 1}}`))
	require.NoError(t, err)
	require.NotNil(t, result.OverallScore)
	assert.InDelta(t, 50.0, *result.OverallScore, 0.001)
}

func TestParseAnalysisResult_WrongType(t *testing.T) {
	_, err := ParseAnalysisResult([]byte(`{"overall_score": "high"}`))
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "overall_score", valErr.Errors[0].Field)
}

func TestParseAnalysisResult_MalformedJSON(t *testing.T) {
	_, err := ParseAnalysisResult([]byte(`{not json`))
	require.Error(t, err)
}

func TestParseStructuredResume(t *testing.T) {
	doc, err := ParseStructuredResume([]byte(`{
		"contact": {"name": "Ada", "email": "ada@example.com"},
		"experience": [{"title": "Engineer", "company": "Acme"}]
	}`))
	require.NoError(t, err)

	contact, ok := doc["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", contact["name"])
}

func TestParseStructuredResume_WrongSectionShape(t *testing.T) {
	_, err := ParseStructuredResume([]byte(`{"experience": "not an array"}`))
	require.Error(t, err)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
