package vision

import (
	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// ContourMeasurer измеряет наибольший внешний контур маски.
type ContourMeasurer struct {
	PixelToCM float64 // калибровка без опорного объекта
}

// NewContourMeasurer создаёт измеритель с заданной калибровкой.
func NewContourMeasurer(pixelToCM float64) *ContourMeasurer {
	return &ContourMeasurer{PixelToCM: pixelToCM}
}

// Measure возвращает длину и ширину раны; без контуров: нули и глубину-заглушку.
func (m *ContourMeasurer) Measure(mask *entity.WoundMask, noise port.Noise, log *entity.AnalysisLog) entity.Dimensions {
	log.Add("Extracting largest contour...")
	log.Add("Calculating min-area rectangle for precision dimensions")

	contours := findExternalContours(mask)
	if len(contours) == 0 {
		log.Add("No wound contour detected")
		return entity.EmptyDimensions()
	}

	best, bestArea := 0, contours[0].area()
	for i := 1; i < len(contours); i++ {
		if a := contours[i].area(); a > bestArea {
			best, bestArea = i, a
		}
	}

	a, b := minAreaRectSides(contours[best].points)
	scale := mask.SourceScale()
	return logDimensions(a*scale, b*scale, m.PixelToCM, noise, log)
}

// logDimensions переводит стороны в сантиметры и пишет их в журнал.
// Стороны уже в пикселях исходного снимка.
func logDimensions(a, b, pixelToCM float64, noise port.Noise, log *entity.AnalysisLog) entity.Dimensions {
	log.Addf("Computed raw dimensions: %.1fpx x %.1fpx", max(a, b), min(a, b))
	dims := dimensionsFromSides(a, b, pixelToCM, noise)
	log.Addf("Calibrated dimensions: %.2fcm x %.2fcm", dims.LengthCM, dims.WidthCM)
	return dims
}

var _ port.DimensionExtractor = (*ContourMeasurer)(nil)
