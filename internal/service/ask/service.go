package ask

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KNICEX/ask-ai/internal/entity"
	"github.com/KNICEX/ask-ai/internal/repo"
	"github.com/KNICEX/ask-ai/internal/service/llm"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

type service struct {
	registry *llm.Registry
	files    llm.FileStore
	records  repo.AskRecordRepo
	tempDir  string
	logger   *zap.Logger
}

type Option func(*service)

// WithRecorder enables the ask audit log.
func WithRecorder(r repo.AskRecordRepo) Option {
	return func(s *service) {
		s.records = r
	}
}

func WithTempDir(dir string) Option {
	return func(s *service) {
		s.tempDir = dir
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

func NewService(registry *llm.Registry, files llm.FileStore, opts ...Option) Service {
	svc := &service{
		registry: registry,
		files:    files,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Models() []string {
	return s.registry.Names()
}

func (s *service) Ask(ctx context.Context, req Request) (Answer, error) {
	if req.Question == "" {
		return Answer{}, ErrQuestionRequired
	}
	model, ok := s.registry.Lookup(req.Model)
	if !ok {
		return Answer{}, ErrInvalidModel
	}

	start := time.Now()
	ans, err := s.answer(ctx, model, req)
	latency := time.Since(start)
	s.record(ctx, req, ans, err, latency)
	if err != nil {
		return Answer{}, err
	}

	s.logger.Debug("question answered",
		zap.String("model", req.Model),
		zap.Bool("image", req.Image != nil),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", ans.InputTokens),
		zap.Int("output_tokens", ans.OutputTokens))
	return ans, nil
}

func (s *service) answer(ctx context.Context, model llm.Model, req Request) (Answer, error) {
	history := []llm.Content{
		{
			Role:  llm.RoleUser,
			Parts: []llm.Part{llm.Text(req.Question)},
		},
	}

	if req.Image != nil {
		ref, err := s.relay(ctx, *req.Image)
		if err != nil {
			return Answer{}, fmt.Errorf("relay image: %w", err)
		}
		history = append(history, llm.Content{
			Role:  llm.RoleUser,
			Parts: []llm.Part{llm.FileData{MIMEType: ref.MIMEType, URI: ref.URI}},
		})
	}

	reply, err := model.StartChat(history).SendMessage(ctx, req.Question)
	if err != nil {
		return Answer{}, fmt.Errorf("send message: %w", err)
	}
	return Answer{
		Text:         strings.TrimSpace(reply.Text),
		InputTokens:  reply.InputTokens,
		OutputTokens: reply.OutputTokens,
	}, nil
}

// relay stages the image in a temp file and hands it to the file store.
// The temp file is removed on every return path.
func (s *service) relay(ctx context.Context, img Image) (ref llm.FileRef, err error) {
	tmp, err := os.CreateTemp(s.tempDir, "ask-*"+filepath.Ext(img.Name))
	if err != nil {
		return llm.FileRef{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = multierror.Append(err, fmt.Errorf("remove temp file: %w", rmErr))
		}
	}()

	_, err = tmp.Write(img.Data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return llm.FileRef{}, fmt.Errorf("write temp file: %w", err)
	}

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(img.Data)
	}
	return s.files.Upload(ctx, tmp.Name(), llm.UploadOptions{
		MIMEType:    mimeType,
		DisplayName: img.Name,
	})
}

func (s *service) record(ctx context.Context, req Request, ans Answer, askErr error, latency time.Duration) {
	if s.records == nil {
		return
	}
	rec := entity.AskRecord{
		Model:        req.Model,
		Question:     req.Question,
		HasImage:     req.Image != nil,
		Status:       entity.AskStatusOK,
		InputTokens:  ans.InputTokens,
		OutputTokens: ans.OutputTokens,
		LatencyMs:    latency.Milliseconds(),
	}
	if askErr != nil {
		rec.Status = entity.AskStatusFailed
		rec.Error = askErr.Error()
	}
	// the request context may already be canceled; the record must still land
	if _, err := s.records.Create(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("record ask failed", zap.Error(err))
	}
}
