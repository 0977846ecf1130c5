// Package clinical содержит правила, которые переводят измерения раны
// в клиническую классификацию, индекс заживления и рекомендацию.
package clinical

import "wound-vision/internal/domain/entity"

// Пороговые значения правил классификации.
const (
	necroticThreshold    = 30.0
	sloughThreshold      = 40.0
	granulationThreshold = 80.0
	lengthThresholdCM    = 5.0
)

type stageRule struct {
	name  string
	match func(t entity.TissueComposition, d entity.Dimensions) bool
	out   entity.Classification
}

// Порядок важен: срабатывает первое подходящее правило.
var stageRules = []stageRule{
	{
		name:  "necrotic tissue dominates",
		match: func(t entity.TissueComposition, _ entity.Dimensions) bool { return t.Necrotic > necroticThreshold },
		out:   entity.Classification{WoundType: entity.WoundPressureUlcer, Stage: entity.StageIV},
	},
	{
		name:  "slough dominates",
		match: func(t entity.TissueComposition, _ entity.Dimensions) bool { return t.Slough > sloughThreshold },
		out:   entity.Classification{WoundType: entity.WoundDiabeticUlcer, Stage: entity.StageIII},
	},
	{
		name:  "granulation dominates",
		match: func(t entity.TissueComposition, _ entity.Dimensions) bool { return t.Granulation > granulationThreshold },
		out:   entity.Classification{WoundType: entity.WoundSurgical, Stage: entity.StageHealing},
	},
	{
		name:  "large wound",
		match: func(_ entity.TissueComposition, d entity.Dimensions) bool { return d.LengthCM > lengthThresholdCM },
		out:   entity.Classification{WoundType: entity.WoundPressureUlcer, Stage: entity.StageIII},
	},
}

var defaultClassification = entity.Classification{WoundType: entity.WoundPressureUlcer, Stage: entity.StageII}

// Classify определяет тип раны и стадию. Функция тотальна.
func Classify(t entity.TissueComposition, d entity.Dimensions, log *entity.AnalysisLog) entity.Classification {
	log.Add("Applying heuristic classification matrix...")
	log.Add("Cross-referencing tissue composition with dimensions")

	for _, r := range stageRules {
		if r.match(t, d) {
			log.Addf("Rule matched: %s -> %s, %s", r.name, r.out.WoundType, r.out.Stage)
			return r.out
		}
	}

	log.Addf("No dominant finding -> %s, %s", defaultClassification.WoundType, defaultClassification.Stage)
	return defaultClassification
}

// EstimateHealingDays 30 дней для худшей стадии, иначе 14.
func EstimateHealingDays(stage string) int {
	if stage == entity.StageIV {
		return 30
	}
	return 14
}
