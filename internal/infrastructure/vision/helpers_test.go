package vision

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"wound-vision/internal/domain/entity"
)

func solidBuffer(w, h int, r, g, b uint8) *entity.PixelBuffer {
	buf := entity.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, r, g, b)
		}
	}
	return buf
}

// squareOnBackground рисует квадрат цвета fg со стороной side в точке (x0, y0).
func squareOnBackground(w, h, x0, y0, side int, bg, fg [3]uint8) *entity.PixelBuffer {
	buf := solidBuffer(w, h, bg[0], bg[1], bg[2])
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			buf.Set(x, y, fg[0], fg[1], fg[2])
		}
	}
	return buf
}

func rectMask(w, h int, rects ...image.Rectangle) *entity.WoundMask {
	m := entity.NewWoundMask(w, h)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return encodePNG(t, img)
}

// oversizedPNG возвращает крошечный PNG, в заголовке которого указан размер w×h.
// Данных пикселей в нём нет: декодировать его целиком нельзя.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := solidPNG(t, 1, 1, color.NRGBA{R: 200, A: 255})
	// сигнатура 8 байт, длина 4, "IHDR" 4, затем ширина и высота
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data[:33]
}
