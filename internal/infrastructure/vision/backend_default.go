//go:build !gocv
// +build !gocv

package vision

// NewBackend без тега gocv возвращает реализацию на чистом Go.
func NewBackend(pixelToCM float64, limits Limits) Backend {
	return NewHeuristicBackend(pixelToCM, limits)
}
