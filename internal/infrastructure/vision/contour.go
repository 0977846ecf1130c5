package vision

import (
	"image"
	"math"

	"wound-vision/internal/domain/entity"
)

// Смещения соседей по часовой стрелке (ось Y вниз): E, SE, S, SW, W, NW, N, NE.
var (
	neighborDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	neighborDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// contour внешняя граница одной 8-связной компоненты маски.
type contour struct {
	points []image.Point
}

// area площадь многоугольника по центрам граничных пикселей (формула Гаусса),
// совпадает с cv::contourArea: прямоугольник w×h пикселей даёт (w-1)(h-1).
func (c contour) area() float64 {
	n := len(c.points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p, q := c.points[i], c.points[(i+1)%n]
		sum += float64(p.X*q.Y - q.X*p.Y)
	}
	return math.Abs(sum) / 2
}

// findExternalContours возвращает внешние контуры всех компонент в порядке растрового обхода.
// Дыры внутри компонент не трассируются.
func findExternalContours(m *entity.WoundMask) []contour {
	labels := make([]int32, len(m.Bits))
	var contours []contour
	var next int32

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if m.Bits[i] == 0 || labels[i] != 0 {
				continue
			}
			next++
			labelComponent(m, labels, x, y, next)
			contours = append(contours, contour{points: traceBoundary(m, image.Pt(x, y))})
		}
	}

	return contours
}

// labelComponent помечает 8-связную компоненту, начиная с (x, y).
func labelComponent(m *entity.WoundMask, labels []int32, x, y int, label int32) {
	stack := []image.Point{{X: x, Y: y}}
	labels[y*m.Width+x] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for d := 0; d < 8; d++ {
			nx, ny := p.X+neighborDX[d], p.Y+neighborDY[d]
			if !m.At(nx, ny) {
				continue
			}
			j := ny*m.Width + nx
			if labels[j] != 0 {
				continue
			}
			labels[j] = label
			stack = append(stack, image.Pt(nx, ny))
		}
	}
}

// traceBoundary обходит внешнюю границу по Муру, начиная с верхнего левого пикселя компоненты.
// Остановка по критерию Джейкоба: повторный вход в старт тем же переходом.
func traceBoundary(m *entity.WoundMask, start image.Point) []image.Point {
	points := []image.Point{start}
	cur, back := start, image.Pt(start.X-1, start.Y)

	var second image.Point
	haveSecond := false
	limit := 4*len(m.Bits) + 8

	for step := 0; step < limit; step++ {
		next, nextBack, ok := nextBoundaryPixel(m, cur, back)
		if !ok {
			return points
		}
		if !haveSecond {
			second, haveSecond = next, true
		} else if cur == start && next == second {
			return points[:len(points)-1]
		}
		points = append(points, next)
		cur, back = next, nextBack
	}

	return points
}

// nextBoundaryPixel ищет следующий пиксель границы по часовой стрелке от фонового соседа back.
func nextBoundaryPixel(m *entity.WoundMask, cur, back image.Point) (image.Point, image.Point, bool) {
	from := directionTo(cur, back)
	prev := back
	for i := 1; i <= 8; i++ {
		d := (from + i) % 8
		p := image.Pt(cur.X+neighborDX[d], cur.Y+neighborDY[d])
		if m.At(p.X, p.Y) {
			return p, prev, true
		}
		prev = p
	}
	return cur, back, false
}

// directionTo индекс соседа b относительно a; a и b должны быть 8-соседями.
func directionTo(a, b image.Point) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	for d := 0; d < 8; d++ {
		if neighborDX[d] == dx && neighborDY[d] == dy {
			return d
		}
	}
	return 4
}
