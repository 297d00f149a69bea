package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestSplitGeminiMessages(t *testing.T) {
	system, contents := splitGeminiMessages([]ChatMessage{
		{Role: RoleSystem, Content: "be an ATS expert"},
		{Role: RoleUser, Content: "Job Title: Go Engineer"},
	})

	assert.Equal(t, "be an ATS expert", system)
	if assert.Len(t, contents, 1) {
		assert.Equal(t, "Job Title: Go Engineer", contents[0].Parts[0].Text)
		assert.Equal(t, genai.RoleUser, contents[0].Role)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	throttled := fmt.Errorf("call: %w", genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"})
	assert.True(t, IsRateLimited(classifyGeminiError(throttled)))

	denied := genai.APIError{Code: http.StatusForbidden, Message: "bad key"}
	assert.False(t, IsRateLimited(classifyGeminiError(denied)))

	assert.False(t, IsRateLimited(classifyGeminiError(errors.New("dial tcp: timeout"))))
}
