package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// fakeClient returns canned responses and records how often it was called.
type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

const validAnalysisJSON = `{
	"extracted_data": {
		"personal_info": {"name": "Priya Sharma", "email": "priya@example.edu"},
		"education": [{"institution": "NIT Trichy", "degree": "B.Tech", "field": "CSE"}],
		"experience": [{"company": "Acme Corp", "role": "SDE Intern", "highlights": ["Shipped a billing service"]}],
		"projects": [{"title": "Campus Portal", "technologies": ["Go", "PostgreSQL"]}],
		"skills": ["Go", " go ", "PostgreSQL", ""],
		"certifications": [],
		"achievements": ["Won Smart India Hackathon"]
	},
	"overall_score": 72.6,
	"ats_score": 120,
	"strengths": ["Strong projects"],
	"weaknesses": ["No summary section"],
	"suggestions": [{"category": "content", "section": "summary", "text": "Add a summary", "priority": "HIGH"}],
	"learning_suggestions": [{"skill": "Kubernetes", "priority": "bogus", "learning_type": "TOOL"}]
}`

func TestExtractAndAnalyze_Success(t *testing.T) {
	client := &fakeClient{response: validAnalysisJSON}
	tracker := quota.New(5, 100)

	result, err := ExtractAndAnalyze(context.Background(), client, tracker, "resume text", "Backend Engineer")
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)

	assert.Equal(t, 73, result.OverallScore, "score should round")
	assert.Equal(t, 100, result.ATSScore, "score should clamp to 100")
	assert.Equal(t, "Priya Sharma", result.ExtractedData.PersonalInfo.Name)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.ExtractedData.Skills, "skills deduped case-insensitively, empties dropped")
	assert.Equal(t, types.PriorityHigh, result.Suggestions[0].Priority)
	assert.Equal(t, types.PriorityMedium, result.LearningSuggestions[0].Priority, "unknown priority defaults to medium")
	assert.Equal(t, types.LearningTool, result.LearningSuggestions[0].LearningType)
}

func TestExtractAndAnalyze_QuotaExhaustedShortCircuits(t *testing.T) {
	client := &fakeClient{response: validAnalysisJSON}
	tracker := quota.New(1, 100)
	tracker.CheckAndConsume() // spend the only token

	_, err := ExtractAndAnalyze(context.Background(), client, tracker, "resume text", "")
	require.Error(t, err)

	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Positive(t, rateErr.RetryAfter)
	assert.Equal(t, 0, client.calls, "no AI call may be made when quota is exhausted")
}

func TestExtractAndAnalyze_ProviderRateLimit(t *testing.T) {
	client := &fakeClient{err: errors.New("googleapi: Error 429: Resource has been exhausted (e.g. check quota)")}
	tracker := quota.New(5, 100)

	_, err := ExtractAndAnalyze(context.Background(), client, tracker, "resume text", "")
	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
}

func TestExtractAndAnalyze_TransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset by peer")}
	tracker := quota.New(5, 100)

	_, err := ExtractAndAnalyze(context.Background(), client, tracker, "resume text", "")
	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)

	// Consumed quota is not refunded on failure.
	assert.Equal(t, 4, tracker.Status().MinuteRemaining)
}

func TestExtractAndAnalyze_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty response", "   "},
		{"not json", "I could not process this resume."},
		{"missing required fields", `{"extracted_data": {"personal_info": {}}}`},
		{"wrong score type", `{"extracted_data": {"personal_info": {}}, "overall_score": "eighty", "ats_score": 10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			tracker := quota.New(5, 100)

			_, err := ExtractAndAnalyze(context.Background(), client, tracker, "resume text", "")
			var analysisErr *AnalysisError
			require.ErrorAs(t, err, &analysisErr)
		})
	}
}

func TestNormalizeExtracted_DropsEntriesMissingIdentifyingFields(t *testing.T) {
	data := types.ExtractedResumeData{
		Education: []types.Education{
			{Institution: "NIT Trichy", Degree: "B.Tech"},
			{Institution: "  ", Degree: "MBA"},
			{Institution: "IIM", Degree: ""},
		},
		Experience: []types.Experience{
			{Company: "Acme", Role: "Intern"},
			{Company: "", Role: "Intern"},
		},
		Projects: []types.Project{
			{Title: "Portal"},
			{Title: "   "},
		},
	}

	NormalizeExtracted(&data)

	require.Len(t, data.Education, 1)
	require.Len(t, data.Experience, 1)
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "NIT Trichy", data.Education[0].Institution)
}

func TestEstimatedImprovedScore(t *testing.T) {
	assert.Equal(t, 85, EstimatedImprovedScore(70))
	assert.Equal(t, 100, EstimatedImprovedScore(90), "bonus is capped at 100")
	assert.Equal(t, 15, EstimatedImprovedScore(0))
}
