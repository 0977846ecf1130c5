package rest

import "wound-vision/internal/domain/entity"

// AnalysisResponse JSON-ответ анализа одной фотографии.
type AnalysisResponse struct {
	AnalysisID          string                   `json:"analysis_id"`
	WoundType           string                   `json:"wound_type"`
	Stage               string                   `json:"stage"`
	TissueComposition   entity.TissueComposition `json:"tissue_composition"`
	Dimensions          entity.Dimensions        `json:"dimensions"`
	CureRecommendation  string                   `json:"cure_recommendation"`
	HealingEstimateDays int                      `json:"healing_estimate_days"`
	ConfidenceScore     float64                  `json:"confidence_score"`
	HealingIndex        float64                  `json:"healing_index"`
	AlgorithmAnalysis   []string                 `json:"algorithm_analysis"`
}

// BatchItemResponse элемент пакетного ответа: либо result, либо error.
type BatchItemResponse struct {
	Filename string            `json:"filename"`
	Result   *AnalysisResponse `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchItemResponse `json:"results"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

func newAnalysisResponse(r *entity.AnalysisResult) *AnalysisResponse {
	return &AnalysisResponse{
		AnalysisID:          r.ID,
		WoundType:           r.WoundType,
		Stage:               r.Stage,
		TissueComposition:   r.Tissue,
		Dimensions:          r.Dimensions,
		CureRecommendation:  r.Recommendation,
		HealingEstimateDays: r.HealingEstimateDays,
		ConfidenceScore:     r.ConfidenceScore,
		HealingIndex:        r.HealingIndex,
		AlgorithmAnalysis:   r.Analysis,
	}
}
