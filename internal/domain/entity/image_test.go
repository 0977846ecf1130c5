package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawImage_DeclaresImage(t *testing.T) {
	cases := map[string]bool{
		"image/png":         true,
		"image/jpeg":        true,
		"IMAGE/WEBP":        true,
		" image/bmp":        true,
		"application/pdf":   false,
		"text/plain":        false,
		"":                  false,
		"application/image": false,
	}
	for ct, want := range cases {
		require.Equal(t, want, RawImage{ContentType: ct}.DeclaresImage(), ct)
	}
}

func TestWoundMask_CountAndEmpty(t *testing.T) {
	m := NewWoundMask(4, 3)
	require.True(t, m.Empty())
	require.Equal(t, 0, m.Count())

	m.Set(1, 1, true)
	m.Set(3, 2, true)
	require.False(t, m.Empty())
	require.Equal(t, 2, m.Count())
	require.True(t, m.At(3, 2))
	require.False(t, m.At(-1, 0))
	require.False(t, m.At(4, 0))

	m.Set(1, 1, false)
	require.Equal(t, 1, m.Count())
}

func TestPixelBuffer_SetAt(t *testing.T) {
	b := NewPixelBuffer(2, 2)
	b.Set(1, 0, 10, 20, 30)
	r, g, bl := b.At(1, 0)
	require.Equal(t, []uint8{10, 20, 30}, []uint8{r, g, bl})
	require.Equal(t, 4, b.Area())
}

func TestAnalysisLog_AppendOnly(t *testing.T) {
	var l AnalysisLog
	l.Add("first")
	l.Addf("second %d", 2)

	lines := l.Lines()
	require.Equal(t, []string{"first", "second 2"}, lines)

	lines[0] = "mutated"
	require.Equal(t, "first", l.Lines()[0])
	require.Equal(t, 2, l.Len())
}

func TestEmptyDimensions(t *testing.T) {
	require.Equal(t, Dimensions{LengthCM: 0, WidthCM: 0, DepthCM: 0.5}, EmptyDimensions())
}

func TestSourceScale(t *testing.T) {
	require.Equal(t, 1.0, NewPixelBuffer(1, 1).SourceScale())
	require.Equal(t, 1.0, (&WoundMask{Scale: 0.5}).SourceScale())
	require.Equal(t, 2.5, (&PixelBuffer{Scale: 2.5}).SourceScale())
}

func TestErrImageTooLarge_IsDecodeError(t *testing.T) {
	require.ErrorIs(t, ErrImageTooLarge, ErrDecode)
	require.NotErrorIs(t, ErrDecode, ErrImageTooLarge)
}
