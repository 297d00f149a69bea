package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSystemPrompt describes the four outputs and the exact JSON shape the
// model must return.
func (pb *PromptBuilder) BuildSystemPrompt() string {
	return `You are a top ATS resume expert and career coach. Your job is to analyze resumes for any job title and provide:
1. ATS score (0-100)
2. Missing or weak keywords relevant to the role
3. 10-12 actionable improvement suggestions (concise, professional)
4. An optimized, modern, and recruiter-friendly version of the resume text
Focus on:
- Skills & keywords relevant to the job
- Professional formatting & bullet points
- Strong action verbs and readability
- Concise and high-impact phrasing

Return strictly in JSON format ONLY:
{
  "score": <number>,
  "keywords": ["keyword1", "keyword2", ...],
  "suggestions": ["suggestion1", "suggestion2", ...],
  "optimized_text": "optimized resume text here"
}`
}

// BuildUserPrompt embeds the target job title and the resume text.
func (pb *PromptBuilder) BuildUserPrompt(jobTitle, resumeText string) string {
	return fmt.Sprintf(`Job Title: %s

Resume Text:
%s

Instructions:
- Score the resume based on ATS compatibility for this job.
- Identify missing or low-priority keywords.
- Provide 10-12 actionable suggestions.
- Rewrite the resume professionally and concisely.
- Return ONLY valid JSON as instructed in system message.`,
		strings.TrimSpace(jobTitle), strings.TrimSpace(resumeText))
}

// BuildMessages returns the system and user messages for one analysis.
func (pb *PromptBuilder) BuildMessages(jobTitle, resumeText string) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: pb.BuildSystemPrompt()},
		{Role: RoleUser, Content: pb.BuildUserPrompt(jobTitle, resumeText)},
	}
}
