package vision

import "wound-vision/internal/domain/entity"

// Морфология с прямоугольным ядром size×size. Пиксели за границей не участвуют,
// как граница по умолчанию в OpenCV (erode: +inf, dilate: -inf).

func erode(m *entity.WoundMask, size int) *entity.WoundMask {
	return rectFilter(m, size, true)
}

func dilate(m *entity.WoundMask, size int) *entity.WoundMask {
	return rectFilter(m, size, false)
}

// morphOpen убирает мелкие пятна.
func morphOpen(m *entity.WoundMask, size int) *entity.WoundMask {
	return dilate(erode(m, size), size)
}

// morphClose закрывает мелкие разрывы.
func morphClose(m *entity.WoundMask, size int) *entity.WoundMask {
	return erode(dilate(m, size), size)
}

// rectFilter сепарабельный min/max: сначала по строкам, затем по столбцам.
func rectFilter(m *entity.WoundMask, size int, isMin bool) *entity.WoundMask {
	before := (size - 1) / 2
	after := size - 1 - before

	tmp := entity.NewWoundMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tmp.Bits[y*m.Width+x] = windowExtreme(m.Bits, y*m.Width, 1, x, m.Width, before, after, isMin)
		}
	}

	out := entity.NewWoundMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.Bits[y*m.Width+x] = windowExtreme(tmp.Bits, x, m.Width, y, m.Height, before, after, isMin)
		}
	}
	return out
}

// windowExtreme ищет min или max в окне [pos-before, pos+after] вдоль одной оси.
func windowExtreme(bits []uint8, base, stride, pos, n, before, after int, isMin bool) uint8 {
	lo, hi := max(0, pos-before), min(n-1, pos+after)
	for i := lo; i <= hi; i++ {
		v := bits[base+i*stride]
		if isMin && v == 0 {
			return 0
		}
		if !isMin && v != 0 {
			return 1
		}
	}
	if isMin {
		return 1
	}
	return 0
}
