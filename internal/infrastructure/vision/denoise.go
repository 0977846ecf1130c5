package vision

import (
	"math"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// NLMeansDenoiser нелокальное среднее по цветным патчам.
// Окна меньше, чем в OpenCV-варианте (7 и 21).
type NLMeansDenoiser struct {
	H              float64 // сила фильтра
	TemplateRadius int     // радиус сравниваемого патча
	SearchRadius   int     // радиус окна поиска
}

// NewNLMeansDenoiser создаёт фильтр с параметрами по умолчанию.
func NewNLMeansDenoiser() *NLMeansDenoiser {
	return &NLMeansDenoiser{
		H:              10,
		TemplateRadius: 1,
		SearchRadius:   3,
	}
}

// Denoise возвращает отфильтрованную копию изображения.
func (d *NLMeansDenoiser) Denoise(img *entity.PixelBuffer, log *entity.AnalysisLog) *entity.PixelBuffer {
	log.Add("Initializing preprocessing...")
	log.Add("Image converted to 8-bit RGB buffer")
	if img.SourceScale() > 1 {
		log.Addf("Image downscaled by %.2fx for analysis", img.SourceScale())
	}
	log.Add("Applying non-local means noise reduction")

	out := entity.NewPixelBuffer(img.Width, img.Height)
	out.Scale = img.Scale
	h2 := d.H * d.H
	tr, sr := d.TemplateRadius, d.SearchRadius
	patchSize := float64((2*tr+1)*(2*tr+1)) * 3

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			var sumW, accR, accG, accB float64
			for sy := max(0, y-sr); sy <= min(img.Height-1, y+sr); sy++ {
				for sx := max(0, x-sr); sx <= min(img.Width-1, x+sr); sx++ {
					dist := patchDistance(img, x, y, sx, sy, tr) / patchSize
					w := math.Exp(-dist / h2)
					r, g, b := img.At(sx, sy)
					accR += w * float64(r)
					accG += w * float64(g)
					accB += w * float64(b)
					sumW += w
				}
			}
			out.Set(x, y, toByte(accR/sumW), toByte(accG/sumW), toByte(accB/sumW))
		}
	}

	return out
}

// patchDistance сумма квадратов разностей двух патчей; края повторяются.
func patchDistance(img *entity.PixelBuffer, x0, y0, x1, y1, radius int) float64 {
	var sum int
	for dy := -radius; dy <= radius; dy++ {
		ya := clampInt(y0+dy, 0, img.Height-1)
		yb := clampInt(y1+dy, 0, img.Height-1)
		for dx := -radius; dx <= radius; dx++ {
			xa := clampInt(x0+dx, 0, img.Width-1)
			xb := clampInt(x1+dx, 0, img.Width-1)
			ia := (ya*img.Width + xa) * 3
			ib := (yb*img.Width + xb) * 3
			for c := 0; c < 3; c++ {
				diff := int(img.Pix[ia+c]) - int(img.Pix[ib+c])
				sum += diff * diff
			}
		}
	}
	return float64(sum)
}

func toByte(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ port.Preprocessor = (*NLMeansDenoiser)(nil)
