package ask

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrQuestionRequired = fmt.Errorf("%w: question is required", ErrValidation)
	ErrInvalidModel     = fmt.Errorf("%w: invalid model", ErrValidation)
)

// IsValidation reports whether err was caused by bad client input rather than
// by the provider or the host.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

type Request struct {
	Question string
	Model    string
	Image    *Image
}

type Answer struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

type Service interface {
	Ask(ctx context.Context, req Request) (Answer, error)
	Models() []string
}
