package port

// Noise источник равномерного шума для имитации погрешности измерений.
// Реализация принадлежит одному вызову конвейера и не разделяется между горутинами.
type Noise interface {
	Uniform(lo, hi float64) float64
}
