package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/types"
)

const validImproveJSON = `{
	"improved_data": {
		"personal_info": {"name": "Priya Sharma", "summary": "Backend-focused CS undergraduate with production Go experience."},
		"education": [{"institution": "NIT Trichy", "degree": "B.Tech"}],
		"experience": [{"company": "Acme Corp", "role": "SDE Intern", "highlights": ["Shipped a billing service handling 10k invoices/month"]}],
		"skills": ["Go", "PostgreSQL"]
	},
	"improvement_summary": [
		"Added a professional summary",
		"Quantified the billing service work"
	]
}`

func TestImprove_Success(t *testing.T) {
	client := &fakeClient{response: validImproveJSON}
	tracker := quota.New(5, 100)

	source := types.ExtractedResumeData{
		PersonalInfo: types.PersonalInfo{Name: "Priya Sharma"},
		Skills:       []string{"Go", "PostgreSQL"},
	}
	suggestions := []types.Suggestion{
		{Category: "content", Section: "summary", Text: "Add a summary", Priority: types.PriorityHigh},
	}

	improved, err := Improve(context.Background(), client, tracker, source, suggestions, "Backend Engineer")
	require.NoError(t, err)

	assert.Len(t, improved.ImprovementSummary, 2)
	assert.Contains(t, improved.Data.PersonalInfo.Summary, "Backend-focused")
	assert.Equal(t, 1, client.calls)
}

func TestImprove_QuotaExhaustedShortCircuits(t *testing.T) {
	client := &fakeClient{response: validImproveJSON}
	tracker := quota.New(1, 100)
	tracker.CheckAndConsume()

	_, err := Improve(context.Background(), client, tracker, types.ExtractedResumeData{}, nil, "")
	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 0, client.calls)
}

func TestImprove_MissingSummaryFails(t *testing.T) {
	client := &fakeClient{response: `{"improved_data": {"personal_info": {}}}`}
	tracker := quota.New(5, 100)

	_, err := Improve(context.Background(), client, tracker, types.ExtractedResumeData{}, nil, "")
	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
}
