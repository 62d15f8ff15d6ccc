package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KNICEX/ask-ai/internal/service/ask"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgNotFound         = "Not found"
	msgQuestionRequired = "Question is required."
	msgInvalidModel     = "Invalid model selected."
	msgProcessing       = "Error processing AI response"
)

const defaultMaxMemory = 32 << 20

type AskResp struct {
	Answer string `json:"answer"`
}

type ModelsResp struct {
	Models []string `json:"models"`
}

type AskHandler struct {
	svc          ask.Service
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewAskHandler builds the ask endpoint. A maxBodyBytes <= 0 leaves the body unbounded.
func NewAskHandler(svc ask.Service, logger *zap.Logger, maxBodyBytes int64) *AskHandler {
	return &AskHandler{
		svc:          svc,
		logger:       logger.Named("ask"),
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *AskHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/ask-ai", h.Ask)
	r.GET("/api/models", h.Models)
}

func (h *AskHandler) Ask(c *gin.Context) {
	req, err := h.parse(c)
	if err != nil {
		h.logger.Error("parse request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgProcessing})
		return
	}

	ans, err := h.svc.Ask(c.Request.Context(), req)
	switch {
	case errors.Is(err, ask.ErrQuestionRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgQuestionRequired})
		return
	case errors.Is(err, ask.ErrInvalidModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidModel})
		return
	case err != nil:
		h.logger.Error("ask failed",
			zap.String("model", req.Model),
			zap.Bool("image", req.Image != nil),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgProcessing})
		return
	}

	c.JSON(http.StatusOK, AskResp{Answer: ans.Text})
}

func (h *AskHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, ModelsResp{Models: h.svc.Models()})
}

// parse reads question, model and the optional image part. A body that is
// not multipart at all is read as an empty form so that validation reports
// the missing fields.
func (h *AskHandler) parse(c *gin.Context) (ask.Request, error) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	err := c.Request.ParseMultipartForm(defaultMaxMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return ask.Request{}, fmt.Errorf("parse multipart form: %w", err)
	}

	req := ask.Request{
		Question: c.PostForm("question"),
		Model:    c.PostForm("model"),
	}
	if c.Request.MultipartForm == nil {
		return req, nil
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return ask.Request{}, fmt.Errorf("read image part: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return ask.Request{}, fmt.Errorf("open image part: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return ask.Request{}, fmt.Errorf("read image part: %w", err)
	}
	req.Image = &ask.Image{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Data:     data,
	}
	return req, nil
}
