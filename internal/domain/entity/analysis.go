package entity

import "fmt"

// AnalysisLog упорядоченный журнал рассуждений конвейера. Только добавление.
type AnalysisLog struct {
	lines []string
}

// Add добавляет строку в журнал.
func (l *AnalysisLog) Add(line string) {
	l.lines = append(l.lines, line)
}

// Addf добавляет отформатированную строку в журнал.
func (l *AnalysisLog) Addf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines возвращает копию накопленных строк.
func (l *AnalysisLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len число строк в журнале.
func (l *AnalysisLog) Len() int {
	return len(l.lines)
}

// AnalysisResult итог анализа одной фотографии раны.
type AnalysisResult struct {
	ID                  string
	WoundType           string
	Stage               string
	Tissue              TissueComposition
	Dimensions          Dimensions
	Recommendation      string
	HealingEstimateDays int
	ConfidenceScore     float64 // проценты, 0–100
	HealingIndex        float64 // 0–100
	Analysis            []string
}
