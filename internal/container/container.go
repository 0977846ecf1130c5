package container

import (
	"go.uber.org/zap"

	"wound-vision/config"
	app "wound-vision/internal/application"
	"wound-vision/internal/domain/port"
	"wound-vision/internal/infrastructure/noise"
	"wound-vision/internal/infrastructure/vision"
)

type Container struct {
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
	Backend         string
}

func New(cfg config.AnalysisConfig, userRepo port.UserRepository, log *zap.Logger) (*Container, error) {
	backend := vision.NewBackend(cfg.PixelToCM, vision.Limits{MaxPixels: cfg.MaxPixels, MaxSide: cfg.MaxImageSide})
	pipeline := app.Pipeline{
		Decoder:      backend.Decoder,
		Preprocessor: backend.Preprocessor,
		Segmenter:    backend.Segmenter,
		Dimensions:   backend.Dimensions,
		Tissue:       backend.Tissue,
	}

	noiseFactory := noise.NewFactory(cfg.JitterEnabled, cfg.JitterSeed)
	analysisService, err := app.NewAnalysisService(pipeline, app.NoiseFactory(noiseFactory), cfg.Workers, log.Named("analysis"))
	if err != nil {
		return nil, err
	}

	log.Info("Analysis pipeline ready",
		zap.String("backend", backend.Name),
		zap.Int("workers", analysisService.Workers()),
		zap.Float64("pixel_to_cm", cfg.PixelToCM),
		zap.Int("max_pixels", cfg.MaxPixels),
		zap.Int("max_image_side", cfg.MaxImageSide),
		zap.Bool("jitter", cfg.JitterEnabled))

	return &Container{
		UserService:     app.NewUserService(userRepo),
		AnalysisService: analysisService,
		Backend:         backend.Name,
	}, nil
}
