package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "wound-vision/internal/application"
	"wound-vision/internal/domain/entity"
)

// Analyzer то, что нужно HTTP-слою от сервиса анализа.
type Analyzer interface {
	Analyze(ctx context.Context, raw entity.RawImage) (*entity.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, images []entity.RawImage) []app.BatchItem
	Workers() int
}

type Handler struct {
	analyzer      Analyzer
	maxUploadSize int64
	log           *zap.Logger
}

func NewHandler(analyzer Analyzer, maxUploadSize int64, log *zap.Logger) *Handler {
	return &Handler{
		analyzer:      analyzer,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Workers: h.analyzer.Workers()})
}

// AnalyzeWound принимает одно фото в поле file.
func (h *Handler) AnalyzeWound(c *gin.Context) {
	if !h.limitBody(c) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.formError(c, err, "No image file provided")
		return
	}

	raw, err := readPart(file)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.String("filename", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), raw)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, newAnalysisResponse(result))
}

// AnalyzeBatch принимает до app.MaxBatchSize фото в поле files.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	if !h.limitBody(c) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.formError(c, err, "Multipart form expected")
		return
	}

	files := form.File["files"]
	switch {
	case len(files) == 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image files provided"})
		return
	case len(files) > app.MaxBatchSize:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Too many files: at most %d per batch", app.MaxBatchSize)})
		return
	}

	images := make([]entity.RawImage, 0, len(files))
	for _, file := range files {
		raw, err := readPart(file)
		if err != nil {
			h.log.Error("Failed to read uploaded file", zap.String("filename", file.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		images = append(images, raw)
	}

	items := h.analyzer.AnalyzeBatch(c.Request.Context(), images)

	resp := BatchResponse{Results: make([]BatchItemResponse, 0, len(items))}
	for _, item := range items {
		out := BatchItemResponse{Filename: item.Filename}
		if item.Err != nil {
			out.Error = errorMessage(item.Err)
		} else {
			out.Result = newAnalysisResponse(item.Result)
		}
		resp.Results = append(resp.Results, out)
	}

	c.JSON(http.StatusOK, resp)
}

// limitBody отвечает 413, если тело заведомо больше лимита, и ограничивает чтение остального.
func (h *Handler) limitBody(c *gin.Context) bool {
	if c.Request.ContentLength > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	return true
}

func (h *Handler) formError(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	h.log.Debug("Bad multipart request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// readPart читает часть формы; её Content-Type считается заявленным типом.
func readPart(file *multipart.FileHeader) (entity.RawImage, error) {
	f, err := file.Open()
	if err != nil {
		return entity.RawImage{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return entity.RawImage{}, err
	}

	return entity.RawImage{
		Data:        data,
		ContentType: file.Header.Get("Content-Type"),
		Filename:    file.Filename,
	}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage не раскрывает клиенту внутренние ошибки.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return "File must be an image"
	case errors.Is(err, entity.ErrImageTooLarge):
		return "Image resolution too large"
	case errors.Is(err, entity.ErrDecode):
		return "Failed to decode image"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Analysis cancelled"
	default:
		return "Analysis failed"
	}
}
