package port

import (
	"wound-vision/internal/domain/entity"
)

// ImageDecoder проверяет заявленный тип и декодирует байты.
type ImageDecoder interface {
	// Decode возвращает entity.ErrValidation или entity.ErrDecode
	Decode(raw entity.RawImage) (*entity.PixelBuffer, error)
}

// Preprocessor подавляет шум сенсора и сжатия перед сегментацией.
type Preprocessor interface {
	// Denoise возвращает новый буфер того же размера
	Denoise(img *entity.PixelBuffer, log *entity.AnalysisLog) *entity.PixelBuffer
}

// Segmenter строит маску раны и оценку уверенности.
type Segmenter interface {
	// Segment никогда не падает: пустая маска: допустимый результат
	Segment(img *entity.PixelBuffer, noise Noise, log *entity.AnalysisLog) entity.Segmentation
}

// DimensionExtractor измеряет рану по наибольшему контуру маски.
type DimensionExtractor interface {
	Measure(mask *entity.WoundMask, noise Noise, log *entity.AnalysisLog) entity.Dimensions
}

// TissueClassifier оценивает состав тканей по цвету пикселей под маской.
type TissueClassifier interface {
	Classify(img *entity.PixelBuffer, mask *entity.WoundMask, log *entity.AnalysisLog) entity.TissueComposition
}
