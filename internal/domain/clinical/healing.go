package clinical

import (
	"math"

	"wound-vision/internal/domain/entity"
)

const maxSizePenalty = 40.0

// HealingIndex считает индекс заживления 0–100: здоровая ткань повышает, площадь снижает.
func HealingIndex(t entity.TissueComposition, d entity.Dimensions) float64 {
	health := t.Granulation*1.0 + t.Slough*0.2 + t.Necrotic*-0.5
	penalty := math.Min(d.Area()*2, maxSizePenalty)

	score := math.Round((health-penalty)*10) / 10
	return math.Max(math.Min(score, 100), 0)
}
