package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wound-vision/internal/domain/entity"
)

// MaxBatchSize предел числа снимков в одном пакете.
const MaxBatchSize = 16

// BatchItem результат анализа одного снимка пакета.
type BatchItem struct {
	Filename string
	Result   *entity.AnalysisResult
	Err      error
}

// AnalyzeBatch анализирует снимки параллельно. Порядок ответа совпадает с порядком входа,
// ошибка одного снимка остаётся в его элементе.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, images []entity.RawImage) []BatchItem {
	items := make([]BatchItem, len(images))
	if len(images) == 0 {
		return items
	}

	var g errgroup.Group
	g.SetLimit(max(min(s.workers, len(images)), 1))

	for i := range images {
		g.Go(func() error {
			items[i].Filename = images[i].Filename
			items[i].Result, items[i].Err = s.Analyze(ctx, images[i])
			return nil
		})
	}
	_ = g.Wait()

	return items
}
