package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// ColorSegmenter выделяет рану по красным тонам HSV и оценивает резкость снимка.
type ColorSegmenter struct{}

// NewColorSegmenter создаёт сегментатор.
func NewColorSegmenter() *ColorSegmenter {
	return &ColorSegmenter{}
}

// Segment строит маску раны, резкость и покрытие.
func (s *ColorSegmenter) Segment(img *entity.PixelBuffer, noise port.Noise, log *entity.AnalysisLog) entity.Segmentation {
	log.Add("Starting color-space segmentation...")

	raw := entity.NewWoundMask(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			h, sat, v := rgbToHSV(img.At(x, y))
			if inWoundHue(h, sat, v) {
				raw.Bits[y*img.Width+x] = 1
			}
		}
	}
	log.Add("HSV color mapping applied")

	mask := morphClose(morphOpen(raw, morphKernel), morphKernel)
	mask.Scale = img.Scale
	log.Add("Applying morphological opening/closing")

	sharpness := normalizeSharpness(laplacianVariance(img))
	coverage := float64(mask.Count()) / float64(img.Area())

	log.Addf("Image sharpness: %.2f", sharpness)
	log.Addf("Wound coverage: %.2f%%", coverage*100)

	return entity.Segmentation{
		Mask:       mask,
		Confidence: confidence(sharpness, coverage, noise),
		Sharpness:  sharpness,
		Coverage:   coverage,
	}
}

// rgbToHSV переводит пиксель в 8-битный HSV в соглашении OpenCV.
func rgbToHSV(r8, g8, b8 uint8) (h, s, v uint8) {
	r, g, b := float64(r8), float64(g8), float64(b8)
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	var hue, sat float64
	if maxC > 0 {
		sat = 255 * diff / maxC
	}
	if diff > 0 {
		switch maxC {
		case r:
			hue = 60 * (g - b) / diff
		case g:
			hue = 60*(b-r)/diff + 120
		default:
			hue = 60*(r-g)/diff + 240
		}
		if hue < 0 {
			hue += 360
		}
	}

	return uint8(math.Round(hue / 2)), uint8(math.Round(sat)), uint8(maxC)
}

// grayscale яркость по весам BT.601, как COLOR_BGR2GRAY.
func grayscale(img *entity.PixelBuffer) []float64 {
	gray := make([]float64, img.Area())
	for i := range gray {
		r, g, b := img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2]
		gray[i] = math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
	}
	return gray
}

// laplacianVariance дисперсия отклика ядра [0 1 0; 1 -4 1; 0 1 0].
// Граница отражается без повтора крайнего пикселя (BORDER_REFLECT_101).
func laplacianVariance(img *entity.PixelBuffer) float64 {
	w, h := img.Width, img.Height
	gray := grayscale(img)
	at := func(x, y int) float64 {
		return gray[reflect101(y, h)*w+reflect101(x, w)]
	}

	resp := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			resp = append(resp, at(x-1, y)+at(x+1, y)+at(x, y-1)+at(x, y+1)-4*at(x, y))
		}
	}
	return stat.PopVariance(resp, nil)
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

var _ port.Segmenter = (*ColorSegmenter)(nil)
