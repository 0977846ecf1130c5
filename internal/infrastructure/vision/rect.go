package vision

import (
	"image"
	"math"
	"sort"
)

// convexHull строит выпуклую оболочку методом монотонной цепи.
// Коллинеарные точки отбрасываются; для вырожденного набора остаются концы отрезка.
func convexHull(points []image.Point) []image.Point {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	hull := make([]image.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// minAreaRectSides возвращает стороны повёрнутого прямоугольника минимальной площади.
// Одна из сторон прямоугольника всегда лежит на ребре выпуклой оболочки.
func minAreaRectSides(points []image.Point) (float64, float64) {
	hull := convexHull(points)
	switch len(hull) {
	case 0, 1:
		return 0, 0
	case 2:
		dx, dy := float64(hull[1].X-hull[0].X), float64(hull[1].Y-hull[0].Y)
		return math.Hypot(dx, dy), 0
	}

	bestArea := math.Inf(1)
	var bestW, bestH float64
	for i := range hull {
		p, q := hull[i], hull[(i+1)%len(hull)]
		ex, ey := float64(q.X-p.X), float64(q.Y-p.Y)
		n := math.Hypot(ex, ey)
		if n == 0 {
			continue
		}
		ux, uy := ex/n, ey/n

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, h := range hull {
			hx, hy := float64(h.X-p.X), float64(h.Y-p.Y)
			u := hx*ux + hy*uy
			v := -hx*uy + hy*ux
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		w, h := maxU-minU, maxV-minV
		if w*h < bestArea {
			bestArea, bestW, bestH = w*h, w, h
		}
	}

	return bestW, bestH
}
