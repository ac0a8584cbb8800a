package analysis

import (
	"github.com/xeipuuv/gojsonschema"
)

// extractedDataSchema describes the structured resume shape shared by the
// analysis and improvement responses.
const extractedDataSchema = `{
	"type": "object",
	"required": ["personal_info"],
	"properties": {
		"personal_info": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"email": {"type": "string"},
				"phone": {"type": "string"},
				"location": {"type": "string"},
				"linkedin": {"type": "string"},
				"github": {"type": "string"},
				"portfolio": {"type": "string"},
				"summary": {"type": "string"}
			}
		},
		"education": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"institution": {"type": "string"},
					"degree": {"type": "string"},
					"field": {"type": "string"},
					"start_year": {"type": "string"},
					"end_year": {"type": "string"},
					"grade": {"type": "string"},
					"current": {"type": "boolean"}
				}
			}
		},
		"experience": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"company": {"type": "string"},
					"role": {"type": "string"},
					"description": {"type": "string"},
					"start_date": {"type": "string"},
					"end_date": {"type": "string"},
					"current": {"type": "boolean"},
					"highlights": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"projects": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"},
					"technologies": {"type": "array", "items": {"type": "string"}},
					"link": {"type": "string"}
				}
			}
		},
		"skills": {"type": "array", "items": {"type": "string"}},
		"certifications": {"type": "array", "items": {"type": "string"}},
		"achievements": {"type": "array", "items": {"type": "string"}}
	}
}`

// analysisResponseSchema is the strict schema for the combined
// extraction + analysis response.
const analysisResponseSchema = `{
	"type": "object",
	"required": ["extracted_data", "overall_score", "ats_score"],
	"properties": {
		"extracted_data": ` + extractedDataSchema + `,
		"overall_score": {"type": "number"},
		"ats_score": {"type": "number"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"weaknesses": {"type": "array", "items": {"type": "string"}},
		"suggestions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["category", "text"],
				"properties": {
					"category": {"type": "string"},
					"section": {"type": "string"},
					"text": {"type": "string"},
					"priority": {"type": "string"}
				}
			}
		},
		"learning_suggestions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["skill"],
				"properties": {
					"skill": {"type": "string"},
					"priority": {"type": "string"},
					"learning_type": {"type": "string"},
					"estimated_time": {"type": "string"},
					"reason": {"type": "string"}
				}
			}
		}
	}
}`

// improveResponseSchema is the strict schema for the improvement response.
const improveResponseSchema = `{
	"type": "object",
	"required": ["improved_data", "improvement_summary"],
	"properties": {
		"improved_data": ` + extractedDataSchema + `,
		"improvement_summary": {"type": "array", "items": {"type": "string"}}
	}
}`

// validateResponse checks a raw JSON response against a schema and returns
// an *AnalysisError listing the first violations when it does not conform.
func validateResponse(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return &AnalysisError{Message: "AI response is not valid JSON", Cause: err}
	}

	if !result.Valid() {
		msg := "AI response does not match the expected schema:"
		for i, desc := range result.Errors() {
			if i >= 3 {
				break
			}
			msg += " " + desc.String() + ";"
		}
		return &AnalysisError{Message: msg}
	}

	return nil
}
