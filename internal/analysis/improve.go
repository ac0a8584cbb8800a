package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// Improved holds the rewritten resume data plus a human-readable list of
// what changed.
type Improved struct {
	Data               types.ExtractedResumeData
	ImprovementSummary []string
}

type improveResponse struct {
	ImprovedData       types.ExtractedResumeData `json:"improved_data"`
	ImprovementSummary []string                  `json:"improvement_summary"`
}

// Improve performs the second AI call: it takes a stored analysis's
// extracted data and suggestions and returns a textually enhanced version of
// the same shape. Gated by the same quota tracker as ExtractAndAnalyze, with
// the same failure modes.
func Improve(ctx context.Context, client llm.Client, tracker *quota.Tracker, data types.ExtractedResumeData, suggestions []types.Suggestion, targetRole string) (*Improved, error) {
	info := tracker.CheckAndConsume()
	if !info.Allowed {
		return nil, &RateLimitedError{RetryAfter: info.ResetIn}
	}

	prompt := buildImprovePrompt(data, suggestions, targetRole)

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		if llm.IsRateLimitError(err) {
			return nil, &RateLimitedError{RetryAfter: tracker.Status().ResetIn}
		}
		return nil, &AnalysisError{Message: "AI call failed", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &AnalysisError{Message: "AI returned an empty response"}
	}

	if err := validateResponse(improveResponseSchema, raw); err != nil {
		return nil, err
	}

	var resp improveResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &AnalysisError{Message: "failed to parse AI response", Cause: err}
	}

	improved := &Improved{
		Data:               resp.ImprovedData,
		ImprovementSummary: resp.ImprovementSummary,
	}
	NormalizeExtracted(&improved.Data)

	return improved, nil
}

// EstimatedImprovedScore computes the post-improvement score shown to the
// student: the original score plus a fixed bonus, capped at 100. This is a
// heuristic approximation, not a re-analysis.
func EstimatedImprovedScore(originalScore int) int {
	const fixedBonus = 15
	score := originalScore + fixedBonus
	if score > 100 {
		return 100
	}
	return score
}
