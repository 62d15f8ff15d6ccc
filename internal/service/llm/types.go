package llm

import (
	"context"
)

const RoleUser = "user"

// Part is one piece of a conversation turn, either Text or FileData.
type Part interface {
	isPart()
}

type Text string

func (Text) isPart() {}

// FileData points at a file previously uploaded to the provider.
type FileData struct {
	MIMEType string
	URI      string
}

func (FileData) isPart() {}

type Content struct {
	Role  string
	Parts []Part
}

type Reply struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

type Session interface {
	SendMessage(ctx context.Context, text string) (Reply, error)
}

// Model is a handle to one provider-side model with its generation config already applied.
type Model interface {
	StartChat(history []Content) Session
}

type UploadOptions struct {
	MIMEType    string
	DisplayName string
}

type FileRef struct {
	Name     string
	URI      string
	MIMEType string
}

type FileStore interface {
	Upload(ctx context.Context, path string, opts UploadOptions) (FileRef, error)
}

type GenerationConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int32
	MaxOutputTokens  int32
	ResponseMIMEType string
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      1,
		TopP:             0.95,
		TopK:             64,
		MaxOutputTokens:  512,
		ResponseMIMEType: "text/plain",
	}
}
