package prompt

import (
	"fmt"
	"strings"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an expert résumé reviewer and career coach. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- score is an integer between 1 and 100 reflecting overall résumé quality and ATS readiness.
- analysis is an overall evaluation in 3-5 paragraphs.
- strengths and weaknesses are arrays of short strings in display order.
- suggestions is an array of objects; each names the area, the detailed suggestion, and an example of how to apply it.

Schema (example with empty values):
{
  "score": 0,
  "analysis": "<string>",
  "strengths": ["<string>"],
  "weaknesses": ["<string>"],
  "suggestions": [
    {
      "area": "<string>",
      "suggestion": "<string>",
      "example": "<string>"
    }
  ]
}`
}

// GetUserPrompt builds the user message around the extracted résumé text.
func GetUserPrompt(resumeText, jobTitle, industry string) string {
	var context strings.Builder
	if jobTitle != "" {
		fmt.Fprintf(&context, "The resume is for a %s position. ", jobTitle)
	}
	if industry != "" {
		fmt.Fprintf(&context, "The industry is %s. ", industry)
	}
	return fmt.Sprintf("Analyze the following resume %sand respond with the JSON per schema.\n\nRESUME TEXT:\n%s", context.String(), resumeText)
}
