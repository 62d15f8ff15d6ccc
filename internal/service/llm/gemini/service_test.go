package gemini

import (
	"testing"

	"github.com/KNICEX/ask-ai/internal/service/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGenerationConfig(t *testing.T) {
	m := newModel(&genai.GenerativeModel{}, "gemini-1.5-flash", llm.DefaultGenerationConfig())

	assert.Equal(t, "gemini-1.5-flash", m.Ref())
	require.NotNil(t, m.model.Temperature)
	require.NotNil(t, m.model.TopP)
	require.NotNil(t, m.model.TopK)
	require.NotNil(t, m.model.MaxOutputTokens)
	assert.Equal(t, float32(1), *m.model.Temperature)
	assert.Equal(t, float32(0.95), *m.model.TopP)
	assert.Equal(t, int32(64), *m.model.TopK)
	assert.Equal(t, int32(512), *m.model.MaxOutputTokens)
	assert.Equal(t, "text/plain", m.model.ResponseMIMEType)
}

func TestStartChatHistory(t *testing.T) {
	m := newModel(&genai.GenerativeModel{}, "gemini-1.5-flash", llm.DefaultGenerationConfig())

	s := m.StartChat([]llm.Content{
		{Role: llm.RoleUser, Parts: []llm.Part{llm.Text("what is this?")}},
		{Role: llm.RoleUser, Parts: []llm.Part{llm.FileData{MIMEType: "image/png", URI: "https://files/abc"}}},
	})

	sess, ok := s.(*Session)
	require.True(t, ok)
	history := sess.session.History
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("what is this?")}, history[0].Parts)
	assert.Equal(t, "user", history[1].Role)
	assert.Equal(t, []genai.Part{genai.FileData{MIMEType: "image/png", URI: "https://files/abc"}}, history[1].Parts)
}

func TestParseResponse(t *testing.T) {
	testCases := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    llm.Reply
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: ErrEmptyResponse,
		},
		{
			name: "candidate without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			wantErr: ErrEmptyResponse,
		},
		{
			name: "no text part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{
					Parts: []genai.Part{genai.FileData{URI: "x"}},
				}}},
			},
			wantErr: ErrEmptyResponse,
		},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{
					Parts: []genai.Part{genai.Text("2 + 2 "), genai.Text("is 4.\n")},
				}}},
				UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 5},
			},
			want: llm.Reply{Text: "2 + 2 is 4.\n", InputTokens: 7, OutputTokens: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseResponse(tc.resp)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
