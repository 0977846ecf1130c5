package vision

import (
	"math"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// Пороги сегментации в HSV (OpenCV: H 0–180, S и V 0–255).
// Красный тон пересекает 0, поэтому диапазонов два.
const (
	lowHueMax     = 15
	highHueMin    = 160
	highHueMax    = 180
	minSaturation = 50
	minValue      = 50
	morphKernel   = 5
)

// Коэффициенты оценки уверенности сегментации.
const (
	sharpnessNorm  = 800.0
	baseConfidence = 0.65
	confidenceMin  = 0.40
	confidenceMax  = 0.98
	confidenceJit  = 0.02
	dimensionJitLo = 0.98
	dimensionJitHi = 1.02
)

// inWoundHue сообщает, попадает ли HSV-пиксель в один из красных диапазонов.
func inWoundHue(h, s, v uint8) bool {
	if s < minSaturation || v < minValue {
		return false
	}
	return h <= lowHueMax || (h >= highHueMin && h <= highHueMax)
}

// confidence объединяет резкость, покрытие и шум в оценку из [0.40, 0.98].
func confidence(sharpness, coverage float64, noise port.Noise) float64 {
	c := baseConfidence + 0.2*sharpness + 0.1*math.Min(coverage*10, 1.0)
	c += noise.Uniform(-confidenceJit, confidenceJit)
	return clamp(c, confidenceMin, confidenceMax)
}

// normalizeSharpness переводит дисперсию лапласиана в [0, 1].
func normalizeSharpness(laplacianVar float64) float64 {
	return clamp(laplacianVar/sharpnessNorm, 0, 1)
}

// dimensionsFromSides переводит стороны повёрнутого прямоугольника в сантиметры.
// Большая сторона после шума всегда становится длиной.
func dimensionsFromSides(a, b, pixelToCM float64, noise port.Noise) entity.Dimensions {
	long, short := math.Max(a, b), math.Min(a, b)
	length := round(long*pixelToCM*noise.Uniform(dimensionJitLo, dimensionJitHi), 2)
	width := round(short*pixelToCM*noise.Uniform(dimensionJitLo, dimensionJitHi), 2)
	if width > length {
		length, width = width, length
	}
	return entity.Dimensions{LengthCM: length, WidthCM: width, DepthCM: entity.DepthPlaceholderCM}
}

// tissueRegime ветка колориметрического правила.
type tissueRegime string

const (
	regimeDark   tissueRegime = "dark"
	regimeBright tissueRegime = "bright/yellow"
	regimeNormal tissueRegime = "normal"
)

// compositionFromMean оценивает состав тканей по среднему цвету под маской.
// Ветки взаимоисключающие, сумма не нормируется.
func compositionFromMean(r, g, b float64) (entity.TissueComposition, tissueRegime) {
	brightness := (r + g + b) / 3

	var gran, slough, necro float64
	var regime tissueRegime
	switch {
	case brightness < 40:
		regime = regimeDark
		necro = math.Min(100, 80+(40-brightness)/2)
		gran = 10
		slough = 10
	case g > 150 && r > 150:
		regime = regimeBright
		slough = math.Min(90, (g+r)/4)
		gran = 100 - slough - 5
		necro = 5
	default:
		regime = regimeNormal
		redness := r / (g + b + 1)
		gran = clamp(redness*50, 10, 95)
		slough = clamp(g/(r+1)*40, 5, 100-gran)
		necro = 100 - gran - slough
	}

	return entity.TissueComposition{
		Granulation: round(gran, 1),
		Slough:      round(slough, 1),
		Necrotic:    round(necro, 1),
	}, regime
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
