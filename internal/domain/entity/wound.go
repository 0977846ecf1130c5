package entity

// Тип раны и стадия из закрытого перечисления классификатора.
const (
	WoundPressureUlcer = "Pressure Ulcer"
	WoundDiabeticUlcer = "Diabetic Ulcer"
	WoundSurgical      = "Surgical Wound"

	StageI       = "Stage I"
	StageII      = "Stage II"
	StageIII     = "Stage III"
	StageIV      = "Stage IV"
	StageHealing = "Healing"
)

// DepthPlaceholderCM глубина раны до появления датчика глубины.
const DepthPlaceholderCM = 0.5

// Dimensions физические размеры раны в сантиметрах. LengthCM >= WidthCM.
type Dimensions struct {
	LengthCM float64 `json:"length"`
	WidthCM  float64 `json:"width"`
	DepthCM  float64 `json:"depth"`
}

// EmptyDimensions возвращает размеры для маски без контуров.
func EmptyDimensions() Dimensions {
	return Dimensions{DepthCM: DepthPlaceholderCM}
}

// Area возвращает площадь ограничивающего прямоугольника в см².
func (d Dimensions) Area() float64 {
	return d.LengthCM * d.WidthCM
}

// TissueComposition доли тканей в процентах. Сумма близка к 100, но не нормируется.
type TissueComposition struct {
	Granulation float64 `json:"granulation"`
	Slough      float64 `json:"slough"`
	Necrotic    float64 `json:"necrotic"`
}

// Classification пара (тип раны, стадия).
type Classification struct {
	WoundType string
	Stage     string
}

// Segmentation результат сегментации: маска и сырая уверенность в [0.40, 0.98].
type Segmentation struct {
	Mask       *WoundMask
	Confidence float64
	Sharpness  float64
	Coverage   float64
}
