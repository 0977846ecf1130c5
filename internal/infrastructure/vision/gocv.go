//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// NewBackend с тегом gocv собирает стадии на OpenCV.
func NewBackend(pixelToCM float64, limits Limits) Backend {
	return Backend{
		Name:         "opencv",
		Decoder:      Decoder{Limits: limits},
		Preprocessor: NewGoCVDenoiser(),
		Segmenter:    NewGoCVSegmenter(),
		Dimensions:   NewGoCVMeasurer(pixelToCM),
		Tissue:       NewGoCVTissueClassifier(),
	}
}

// GoCVDenoiser fastNlMeansDenoisingColored с параметрами 10, 10, 7, 21.
type GoCVDenoiser struct {
	H              float32
	HColor         float32
	TemplateWindow int
	SearchWindow   int
}

// NewGoCVDenoiser создаёт фильтр с параметрами по умолчанию.
func NewGoCVDenoiser() *GoCVDenoiser {
	return &GoCVDenoiser{
		H:              10,
		HColor:         10,
		TemplateWindow: 7,
		SearchWindow:   21,
	}
}

// Denoise возвращает отфильтрованную копию.
func (d *GoCVDenoiser) Denoise(img *entity.PixelBuffer, log *entity.AnalysisLog) *entity.PixelBuffer {
	src, err := toBGRMat(img)
	if err != nil {
		return NewNLMeansDenoiser().Denoise(img, log)
	}
	defer src.Close()

	log.Add("Initializing preprocessing...")
	log.Add("Image converted to BGR format")
	if img.SourceScale() > 1 {
		log.Addf("Image downscaled by %.2fx for analysis", img.SourceScale())
	}
	log.Add("Applying FastNlMeans noise reduction")

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.FastNlMeansDenoisingColoredWithParams(src, &dst, d.H, d.HColor, d.TemplateWindow, d.SearchWindow)

	out := fromBGRMat(dst)
	out.Scale = img.Scale
	return out
}

// GoCVSegmenter строит маску через inRange и морфологию OpenCV.
type GoCVSegmenter struct{}

// NewGoCVSegmenter создаёт сегментатор.
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{}
}

// Segment повторяет ColorSegmenter на примитивах OpenCV.
func (s *GoCVSegmenter) Segment(img *entity.PixelBuffer, noise port.Noise, log *entity.AnalysisLog) entity.Segmentation {
	src, err := toBGRMat(img)
	if err != nil {
		return NewColorSegmenter().Segment(img, noise, log)
	}
	defer src.Close()

	log.Add("Starting color-space segmentation...")

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	low := gocv.NewMat()
	defer low.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(0, minSaturation, minValue, 0),
		gocv.NewScalar(lowHueMax, 255, 255, 0),
		&low)

	high := gocv.NewMat()
	defer high.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(highHueMin, minSaturation, minValue, 0),
		gocv.NewScalar(highHueMax, 255, 255, 0),
		&high)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.BitwiseOr(low, high, &mask)
	log.Add("HSV color mapping applied")

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(morphKernel, morphKernel))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	log.Add("Applying morphological opening/closing")

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(lap, &mean, &stdDev)
	sd := stdDev.GetDoubleAt(0, 0)

	sharpness := normalizeSharpness(sd * sd)
	coverage := ratioOfMask(mask)

	log.Addf("Image sharpness: %.2f", sharpness)
	log.Addf("Wound coverage: %.2f%%", coverage*100)

	woundMask := fromMaskMat(mask)
	woundMask.Scale = img.Scale

	return entity.Segmentation{
		Mask:       woundMask,
		Confidence: confidence(sharpness, coverage, noise),
		Sharpness:  sharpness,
		Coverage:   coverage,
	}
}

// GoCVMeasurer измеряет наибольший контур через findContours и minAreaRect.
type GoCVMeasurer struct {
	PixelToCM float64
}

// NewGoCVMeasurer создаёт измеритель с заданной калибровкой.
func NewGoCVMeasurer(pixelToCM float64) *GoCVMeasurer {
	return &GoCVMeasurer{PixelToCM: pixelToCM}
}

// Measure возвращает размеры раны в сантиметрах.
func (m *GoCVMeasurer) Measure(mask *entity.WoundMask, noise port.Noise, log *entity.AnalysisLog) entity.Dimensions {
	mat, err := toMaskMat(mask)
	if err != nil {
		return NewContourMeasurer(m.PixelToCM).Measure(mask, noise, log)
	}
	defer mat.Close()

	log.Add("Extracting largest contour...")
	log.Add("Calculating min-area rectangle for precision dimensions")

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		log.Add("No wound contour detected")
		return entity.EmptyDimensions()
	}

	best, bestArea := 0, gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}

	rect := gocv.MinAreaRect2(contours.At(best))
	scale := mask.SourceScale()
	return logDimensions(float64(rect.Width)*scale, float64(rect.Height)*scale, m.PixelToCM, noise, log)
}

// GoCVTissueClassifier считает средний цвет под маской через MeanWithMask.
type GoCVTissueClassifier struct{}

// NewGoCVTissueClassifier создаёт классификатор.
func NewGoCVTissueClassifier() *GoCVTissueClassifier {
	return &GoCVTissueClassifier{}
}

// Classify возвращает {0,0,0} для пустой маски.
func (c *GoCVTissueClassifier) Classify(img *entity.PixelBuffer, mask *entity.WoundMask, log *entity.AnalysisLog) entity.TissueComposition {
	if mask.Empty() {
		log.Add("Performing accurate pixel-level colorimetric analysis...")
		log.Add("Calibrated RGB mapping for Granulation, Slough, and Necrosis")
		log.Add("No wound pixels under mask")
		return entity.TissueComposition{}
	}

	src, err := toBGRMat(img)
	if err != nil {
		return NewColorTissueClassifier().Classify(img, mask, log)
	}
	defer src.Close()

	m, err := toMaskMat(mask)
	if err != nil {
		return NewColorTissueClassifier().Classify(img, mask, log)
	}
	defer m.Close()

	log.Add("Performing accurate pixel-level colorimetric analysis...")
	log.Add("Calibrated RGB mapping for Granulation, Slough, and Necrosis")

	mean := src.MeanWithMask(m)
	return logComposition(mean.Val3, mean.Val2, mean.Val1, log)
}

// toBGRMat копирует RGB-буфер в gocv.Mat в порядке каналов OpenCV.
func toBGRMat(img *entity.PixelBuffer) (gocv.Mat, error) {
	bgr := make([]byte, len(img.Pix))
	for i := 0; i < len(img.Pix); i += 3 {
		bgr[i], bgr[i+1], bgr[i+2] = img.Pix[i+2], img.Pix[i+1], img.Pix[i]
	}
	return cloneFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, bgr)
}

func fromBGRMat(mat gocv.Mat) *entity.PixelBuffer {
	out := entity.NewPixelBuffer(mat.Cols(), mat.Rows())
	data := mat.ToBytes()
	for i := 0; i+2 < len(data) && i+2 < len(out.Pix); i += 3 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = data[i+2], data[i+1], data[i]
	}
	return out
}

func toMaskMat(mask *entity.WoundMask) (gocv.Mat, error) {
	data := make([]byte, len(mask.Bits))
	for i, v := range mask.Bits {
		if v != 0 {
			data[i] = 255
		}
	}
	return cloneFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8UC1, data)
}

// cloneFromBytes копирует данные в память OpenCV: Mat из NewMatFromBytes ссылается на срез Go.
func cloneFromBytes(rows, cols int, mt gocv.MatType, data []byte) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(rows, cols, mt, data)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	return view.Clone(), nil
}

func fromMaskMat(mat gocv.Mat) *entity.WoundMask {
	out := entity.NewWoundMask(mat.Cols(), mat.Rows())
	for i, v := range mat.ToBytes() {
		if i >= len(out.Bits) {
			break
		}
		if v != 0 {
			out.Bits[i] = 1
		}
	}
	return out
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var (
	_ port.Preprocessor       = (*GoCVDenoiser)(nil)
	_ port.Segmenter          = (*GoCVSegmenter)(nil)
	_ port.DimensionExtractor = (*GoCVMeasurer)(nil)
	_ port.TissueClassifier   = (*GoCVTissueClassifier)(nil)
)
