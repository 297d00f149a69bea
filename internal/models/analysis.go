package models

type AnalyzeRequest struct {
	Text     string `json:"text" form:"text"`
	JobTitle string `json:"jobTitle" form:"jobTitle"`
}

// AnalysisResult is the structured feedback produced from one model reply.
type AnalysisResult struct {
	Score       int      `json:"score"`
	Keywords    []string `json:"keywords"`
	Suggestions []string `json:"suggestions"`
	RevisedText string   `json:"revised_text"`
}

type AnalyzeResponse struct {
	ModelUsed string `json:"model_used"`
	AnalysisResult
}

type ExtractResponse struct {
	Text string `json:"text"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Debug   string `json:"debug,omitempty"`
}
