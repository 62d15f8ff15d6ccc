package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/KNICEX/ask-ai/internal/service/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
)

var ErrEmptyResponse = errors.New("gemini: response has no text")

type Session struct {
	session *genai.ChatSession
}

func (s *Session) SendMessage(ctx context.Context, text string) (llm.Reply, error) {
	resp, err := s.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return llm.Reply{}, err
	}
	return parseResponse(resp)
}

type Model struct {
	ref   string
	model *genai.GenerativeModel
}

// NewModel binds ref (a base name such as "gemini-1.5-flash" or a tuned model
// path "tunedModels/...") to a handle with cfg applied. The returned model
// is read-only afterwards and may be shared between requests.
func NewModel(client *genai.Client, ref string, cfg llm.GenerationConfig) *Model {
	return newModel(client.GenerativeModel(ref), ref, cfg)
}

func newModel(gm *genai.GenerativeModel, ref string, cfg llm.GenerationConfig) *Model {
	applyGenerationConfig(gm, cfg)
	return &Model{
		ref:   ref,
		model: gm,
	}
}

func (m *Model) Ref() string {
	return m.ref
}

func (m *Model) StartChat(history []llm.Content) llm.Session {
	cs := m.model.StartChat()
	cs.History = toGenaiContents(history)
	return &Session{
		session: cs,
	}
}

func applyGenerationConfig(gm *genai.GenerativeModel, cfg llm.GenerationConfig) {
	gm.SetTemperature(cfg.Temperature)
	gm.SetTopP(cfg.TopP)
	gm.SetTopK(cfg.TopK)
	gm.SetMaxOutputTokens(cfg.MaxOutputTokens)
	gm.ResponseMIMEType = cfg.ResponseMIMEType
}

func toGenaiContents(history []llm.Content) []*genai.Content {
	return lo.Map(history, func(c llm.Content, _ int) *genai.Content {
		parts := lo.FilterMap(c.Parts, func(p llm.Part, _ int) (genai.Part, bool) {
			switch v := p.(type) {
			case llm.Text:
				return genai.Text(v), true
			case llm.FileData:
				return genai.FileData{MIMEType: v.MIMEType, URI: v.URI}, true
			}
			return nil, false
		})
		return &genai.Content{
			Role:  c.Role,
			Parts: parts,
		}
	})
}

// parseResponse joins every text part of the first candidate.
func parseResponse(resp *genai.GenerateContentResponse) (llm.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.Reply{}, ErrEmptyResponse
	}
	var resStr strings.Builder
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			resStr.WriteString(string(text))
			found = true
		}
	}
	if !found {
		return llm.Reply{}, ErrEmptyResponse
	}
	reply := llm.Reply{
		Text: resStr.String(),
	}
	if resp.UsageMetadata != nil {
		reply.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		reply.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return reply, nil
}
