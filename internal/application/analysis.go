package app

import (
	"context"
	"errors"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"wound-vision/internal/domain/clinical"
	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// Pipeline стадии конвейера анализа.
type Pipeline struct {
	Decoder      port.ImageDecoder
	Preprocessor port.Preprocessor
	Segmenter    port.Segmenter
	Dimensions   port.DimensionExtractor
	Tissue       port.TissueClassifier
}

func (p Pipeline) validate() error {
	if p.Decoder == nil || p.Preprocessor == nil || p.Segmenter == nil || p.Dimensions == nil || p.Tissue == nil {
		return errors.New("pipeline stage is not configured")
	}
	return nil
}

// NoiseFactory выдаёт новый источник шума на каждый анализ.
type NoiseFactory func() port.Noise

// AnalysisService выполняет анализ снимков на ограниченном пуле воркеров.
type AnalysisService struct {
	pipeline Pipeline
	noise    NoiseFactory
	slots    *semaphore.Weighted
	workers  int
	logger   *zap.Logger
}

// NewAnalysisService создаёт сервис; workers <= 0 означает по числу ядер.
func NewAnalysisService(pipeline Pipeline, noise NoiseFactory, workers int, logger *zap.Logger) (*AnalysisService, error) {
	if err := pipeline.validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		return nil, errors.New("noise factory is not configured")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnalysisService{
		pipeline: pipeline,
		noise:    noise,
		slots:    semaphore.NewWeighted(int64(workers)),
		workers:  workers,
		logger:   logger,
	}, nil
}

// Workers размер пула.
func (s *AnalysisService) Workers() int {
	return s.workers
}

// Analyze анализирует один снимок. Ошибки только до декодирования включительно
// (entity.ErrValidation, entity.ErrDecode) или отмена ctx.
func (s *AnalysisService) Analyze(ctx context.Context, raw entity.RawImage) (*entity.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.slots.Release(1)

	start := time.Now()
	result, err := s.run(raw, s.noise())
	if err != nil {
		s.logger.Warn("analysis rejected",
			zap.String("filename", raw.Filename),
			zap.String("content_type", raw.ContentType),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("analysis complete",
		zap.String("analysis_id", result.ID),
		zap.String("filename", raw.Filename),
		zap.String("wound_type", result.WoundType),
		zap.String("stage", result.Stage),
		zap.Float64("confidence", result.ConfidenceScore),
		zap.Float64("healing_index", result.HealingIndex),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// run проходит стадии по порядку; после декодирования ошибок нет.
func (s *AnalysisService) run(raw entity.RawImage, noise port.Noise) (*entity.AnalysisResult, error) {
	img, err := s.pipeline.Decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	var log entity.AnalysisLog
	img = s.pipeline.Preprocessor.Denoise(img, &log)
	seg := s.pipeline.Segmenter.Segment(img, noise, &log)
	dims := s.pipeline.Dimensions.Measure(seg.Mask, noise, &log)
	tissue := s.pipeline.Tissue.Classify(img, seg.Mask, &log)

	class := clinical.Classify(tissue, dims, &log)

	healing := clinical.HealingIndex(tissue, dims)
	log.Addf("Healing Index computed: %.1f", healing)

	recommendation := clinical.Recommend(class)
	log.Add("Cure recommendations generated based on clinical protocols")

	return &entity.AnalysisResult{
		ID:                  uuid.NewString(),
		WoundType:           class.WoundType,
		Stage:               class.Stage,
		Tissue:              tissue,
		Dimensions:          dims,
		Recommendation:      recommendation,
		HealingEstimateDays: clinical.EstimateHealingDays(class.Stage),
		ConfidenceScore:     math.Round(seg.Confidence*1000) / 10,
		HealingIndex:        healing,
		Analysis:            log.Lines(),
	}, nil
}
