package telegram

import (
	"fmt"
	"strings"

	"wound-vision/internal/domain/entity"
)

// FormatReport собирает текстовый отчёт для чата.
func FormatReport(r *entity.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🩺 %s, %s\n\n", r.WoundType, r.Stage)

	sb.WriteString("🧫 Ткани:\n")
	fmt.Fprintf(&sb, "• грануляция: %.1f%%\n", r.Tissue.Granulation)
	fmt.Fprintf(&sb, "• фибрин: %.1f%%\n", r.Tissue.Slough)
	fmt.Fprintf(&sb, "• некроз: %.1f%%\n\n", r.Tissue.Necrotic)

	if r.Dimensions.LengthCM == 0 && r.Dimensions.WidthCM == 0 {
		sb.WriteString("📏 Контур раны не найден\n")
	} else {
		fmt.Fprintf(&sb, "📏 Размеры: %.2f × %.2f см (глубина %.1f см, оценка)\n",
			r.Dimensions.LengthCM, r.Dimensions.WidthCM, r.Dimensions.DepthCM)
	}
	fmt.Fprintf(&sb, "📈 Индекс заживления: %.1f / 100\n", r.HealingIndex)
	fmt.Fprintf(&sb, "🎯 Уверенность: %.1f%%\n", r.ConfidenceScore)
	fmt.Fprintf(&sb, "⏱ Ожидаемый срок заживления: %d дн.\n\n", r.HealingEstimateDays)

	fmt.Fprintf(&sb, "💊 %s", r.Recommendation)

	return sb.String()
}
