package clinical

import "wound-vision/internal/domain/entity"

// FallbackRecommendation выдаётся для пар, которых нет в таблице.
const FallbackRecommendation = "Perform saline irrigation. Apply moisture-retentive dressing."

var recommendations = map[entity.Classification]string{
	{WoundType: entity.WoundPressureUlcer, Stage: entity.StageI}:   "Apply protective film or hydrocolloid. Offload pressure.",
	{WoundType: entity.WoundPressureUlcer, Stage: entity.StageII}:  "Clean with saline. Apply hydrocolloid or transparent film.",
	{WoundType: entity.WoundPressureUlcer, Stage: entity.StageIII}: "Surgical debridement if necrotic. Use alginate for high exudate.",
	{WoundType: entity.WoundPressureUlcer, Stage: entity.StageIV}:  "Immediate surgical consultation. Advanced negative pressure therapy.",
	{WoundType: entity.WoundDiabeticUlcer, Stage: entity.StageIII}: "Total contact casting. Aggressive debridement and infection control.",
	{WoundType: entity.WoundSurgical, Stage: entity.StageHealing}:   "Keep clean and dry. Standard adhesive dressing.",
}

// Recommend возвращает рекомендацию по лечению. Никогда не падает.
func Recommend(c entity.Classification) string {
	if r, ok := recommendations[c]; ok {
		return r
	}
	return FallbackRecommendation
}
