package vision

import "wound-vision/internal/domain/port"

// Backend набор взаимозаменяемых реализаций стадий конвейера.
type Backend struct {
	Name         string
	Decoder      port.ImageDecoder
	Preprocessor port.Preprocessor
	Segmenter    port.Segmenter
	Dimensions   port.DimensionExtractor
	Tissue       port.TissueClassifier
}

// NewHeuristicBackend собирает реализацию на чистом Go.
// pixelToCM относится к пикселям исходного снимка, до уменьшения.
func NewHeuristicBackend(pixelToCM float64, limits Limits) Backend {
	return Backend{
		Name:         "heuristic",
		Decoder:      Decoder{Limits: limits},
		Preprocessor: NewNLMeansDenoiser(),
		Segmenter:    NewColorSegmenter(),
		Dimensions:   NewContourMeasurer(pixelToCM),
		Tissue:       NewColorTissueClassifier(),
	}
}
