package gemini

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KNICEX/ask-ai/internal/service/llm"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// fileClient is the part of *genai.Client used for uploads.
type fileClient interface {
	UploadFile(ctx context.Context, name string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
}

type FileStore struct {
	client       fileClient
	pollInterval time.Duration
	logger       *zap.Logger
}

type FileStoreOption func(*FileStore)

func WithPollInterval(d time.Duration) FileStoreOption {
	return func(fs *FileStore) {
		if d > 0 {
			fs.pollInterval = d
		}
	}
}

func WithLogger(l *zap.Logger) FileStoreOption {
	return func(fs *FileStore) {
		fs.logger = l
	}
}

func NewFileStore(client *genai.Client, opts ...FileStoreOption) *FileStore {
	return newFileStore(client, opts...)
}

func newFileStore(client fileClient, opts ...FileStoreOption) *FileStore {
	fs := &FileStore{
		client:       client,
		pollInterval: 2 * time.Second,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Upload sends the file at path to the Gemini File API and blocks until the
// file leaves the PROCESSING state.
func (fs *FileStore) Upload(ctx context.Context, path string, opts llm.UploadOptions) (llm.FileRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return llm.FileRef{}, err
	}
	defer f.Close()

	file, err := fs.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: opts.DisplayName,
		MIMEType:    opts.MIMEType,
	})
	if err != nil {
		return llm.FileRef{}, fmt.Errorf("upload file: %w", err)
	}
	fs.logger.Debug("file uploaded",
		zap.String("name", file.Name),
		zap.String("uri", file.URI),
		zap.Int32("state", int32(file.State)))

	file, err = fs.waitActive(ctx, file)
	if err != nil {
		return llm.FileRef{}, err
	}
	return llm.FileRef{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
	}, nil
}

func (fs *FileStore) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	ticker := time.NewTicker(fs.pollInterval)
	defer ticker.Stop()
	name := file.Name
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		var err error
		file, err = fs.client.GetFile(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("get file %s: %w", name, err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("file %s failed processing", name)
	}
	return file, nil
}
