package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// Limits ограничивает размер снимка, который попадает в конвейер.
type Limits struct {
	MaxPixels int // больше отклоняется до декодирования; 0: без ограничения
	MaxSide   int // большая сторона уменьшается до MaxSide; 0: без уменьшения
}

// DefaultLimits: 50 Мп на входе, анализ на стороне 1024.
func DefaultLimits() Limits {
	return Limits{MaxPixels: 50_000_000, MaxSide: 1024}
}

// Ingest проверяет заявленный тип и декодирует байты в RGB-буфер.
// Тип проверяется до декодирования, содержимое байтов на это не влияет.
func Ingest(raw entity.RawImage, limits Limits) (*entity.PixelBuffer, error) {
	if !raw.DeclaresImage() {
		return nil, fmt.Errorf("%w: content type %q", entity.ErrValidation, raw.ContentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrDecode, err)
	}
	if limits.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(limits.MaxPixels) {
		return nil, fmt.Errorf("%w: %s %dx%d exceeds %d pixels",
			entity.ErrImageTooLarge, format, cfg.Width, cfg.Height, limits.MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(raw.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty %s image", entity.ErrDecode, format)
	}

	img, scale := downscale(img, limits.MaxSide)
	buf := toPixelBuffer(img)
	buf.Scale = scale
	return buf, nil
}

// downscale уменьшает снимок так, чтобы большая сторона не превышала maxSide.
// Возвращает исходных пикселей на пиксель результата.
func downscale(img image.Image, maxSide int) (image.Image, float64) {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxSide <= 0 || longest <= maxSide {
		return img, 1
	}

	scale := float64(longest) / float64(maxSide)
	w := max(1, int(math.Round(float64(b.Dx())/scale)))
	h := max(1, int(math.Round(float64(b.Dy())/scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, scale
}

// Decoder ImageDecoder на стандартных и x/image декодерах.
type Decoder struct {
	Limits Limits
}

// Decode вызывает Ingest с лимитами декодера.
func (d Decoder) Decode(raw entity.RawImage) (*entity.PixelBuffer, error) {
	return Ingest(raw, d.Limits)
}

// toPixelBuffer отбрасывает альфа-канал, не домножая цвет на него.
func toPixelBuffer(img image.Image) *entity.PixelBuffer {
	bounds := img.Bounds()
	buf := entity.NewPixelBuffer(bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < buf.Height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+buf.Width*4]
			for x := 0; x < buf.Width; x++ {
				buf.Set(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	default:
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				buf.Set(x, y, c.R, c.G, c.B)
			}
		}
	}

	return buf
}

var _ port.ImageDecoder = Decoder{}
