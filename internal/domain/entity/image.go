package entity

import "strings"

// RawImage загруженный файл вместе с заявленным типом содержимого.
type RawImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DeclaresImage сообщает, заявлен ли тип содержимого как изображение.
func (r RawImage) DeclaresImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.ContentType)), "image/")
}

// PixelBuffer декодированное изображение, 3 канала по 8 бит в порядке R, G, B.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*3
	Scale  float64 // исходных пикселей на пиксель буфера; 0 и 1: без уменьшения
}

// NewPixelBuffer создаёт пустой буфер заданного размера.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// SourceScale возвращает множитель перевода в пиксели исходного снимка.
func (b *PixelBuffer) SourceScale() float64 {
	return sourceScale(b.Scale)
}

// At возвращает каналы пикселя (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * 3
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set записывает каналы пикселя (x, y).
func (b *PixelBuffer) Set(x, y int, r, g, bl uint8) {
	i := (y*b.Width + x) * 3
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// Area число пикселей в буфере.
func (b *PixelBuffer) Area() int {
	return b.Width * b.Height
}

// WoundMask бинарная маска раны того же размера, что и PixelBuffer.
type WoundMask struct {
	Width  int
	Height int
	Bits   []uint8 // 1: пиксель раны, 0: фон
	Scale  float64 // наследуется от PixelBuffer
}

// NewWoundMask создаёт пустую маску.
func NewWoundMask(width, height int) *WoundMask {
	return &WoundMask{
		Width:  width,
		Height: height,
		Bits:   make([]uint8, width*height),
	}
}

// SourceScale возвращает множитель перевода в пиксели исходного снимка.
func (m *WoundMask) SourceScale() float64 {
	return sourceScale(m.Scale)
}

// At возвращает true, если пиксель отмечен как рана. За границами: false.
func (m *WoundMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] != 0
}

// Set отмечает или снимает отметку с пикселя.
func (m *WoundMask) Set(x, y int, on bool) {
	var v uint8
	if on {
		v = 1
	}
	m.Bits[y*m.Width+x] = v
}

// Count число отмеченных пикселей.
func (m *WoundMask) Count() int {
	n := 0
	for _, v := range m.Bits {
		if v != 0 {
			n++
		}
	}
	return n
}

// Empty сообщает, что в маске нет ни одного пикселя раны.
func (m *WoundMask) Empty() bool {
	for _, v := range m.Bits {
		if v != 0 {
			return false
		}
	}
	return true
}

func sourceScale(s float64) float64 {
	if s <= 1 {
		return 1
	}
	return s
}
