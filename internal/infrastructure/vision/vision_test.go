package vision

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/infrastructure/noise"
)

var (
	red   = [3]uint8{200, 20, 20}
	white = [3]uint8{255, 255, 255}
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		rgb     [3]uint8
		h, s, v uint8
	}{
		{rgb: [3]uint8{255, 0, 0}, h: 0, s: 255, v: 255},
		{rgb: [3]uint8{0, 255, 0}, h: 60, s: 255, v: 255},
		{rgb: [3]uint8{0, 0, 255}, h: 120, s: 255, v: 255},
		{rgb: [3]uint8{255, 0, 128}, h: 165, s: 255, v: 255},
		{rgb: [3]uint8{0, 0, 0}, h: 0, s: 0, v: 0},
		{rgb: [3]uint8{128, 128, 128}, h: 0, s: 0, v: 128},
	}
	for _, tt := range tests {
		h, s, v := rgbToHSV(tt.rgb[0], tt.rgb[1], tt.rgb[2])
		require.Equal(t, []uint8{tt.h, tt.s, tt.v}, []uint8{h, s, v}, "%v", tt.rgb)
	}
}

func TestInWoundHue(t *testing.T) {
	require.True(t, inWoundHue(0, 200, 200))
	require.True(t, inWoundHue(15, 50, 50))
	require.True(t, inWoundHue(170, 255, 255))
	require.True(t, inWoundHue(180, 255, 255))
	require.False(t, inWoundHue(16, 255, 255))
	require.False(t, inWoundHue(159, 255, 255))
	require.False(t, inWoundHue(5, 49, 255))
	require.False(t, inWoundHue(5, 255, 49))
}

func TestMorphology_OpenRemovesSpeckle(t *testing.T) {
	m := rectMask(30, 30, image.Rect(10, 10, 20, 20), image.Rect(2, 2, 4, 4))
	opened := morphOpen(m, 5)

	require.False(t, opened.At(2, 2))
	require.False(t, opened.At(3, 3))
	require.Equal(t, 100, opened.Count())
}

func TestMorphology_CloseFillsGap(t *testing.T) {
	m := rectMask(30, 30, image.Rect(5, 5, 14, 20), image.Rect(15, 5, 25, 20))
	closed := morphClose(m, 5)

	require.True(t, closed.At(14, 10))
	require.Equal(t, 20*15, closed.Count())
}

func TestMorphology_FullFrameSurvives(t *testing.T) {
	m := rectMask(12, 9, image.Rect(0, 0, 12, 9))
	require.Equal(t, 12*9, morphClose(morphOpen(m, 5), 5).Count())
}

func TestFindExternalContours(t *testing.T) {
	m := rectMask(40, 30, image.Rect(2, 2, 6, 5), image.Rect(10, 10, 30, 25))
	contours := findExternalContours(m)
	require.Len(t, contours, 2)

	require.InDelta(t, 3*2, contours[0].area(), 1e-9)
	require.InDelta(t, 19*14, contours[1].area(), 1e-9)
}

func TestFindExternalContours_IgnoresHoles(t *testing.T) {
	m := rectMask(20, 20, image.Rect(2, 2, 18, 18))
	for y := 6; y < 14; y++ {
		for x := 6; x < 14; x++ {
			m.Set(x, y, false)
		}
	}
	contours := findExternalContours(m)
	require.Len(t, contours, 1)
	require.InDelta(t, 15*15, contours[0].area(), 1e-9)
}

func TestFindExternalContours_SinglePixelAndLine(t *testing.T) {
	m := rectMask(10, 10, image.Rect(1, 1, 2, 2), image.Rect(4, 6, 9, 7))
	contours := findExternalContours(m)
	require.Len(t, contours, 2)
	require.Equal(t, []image.Point{{X: 1, Y: 1}}, contours[0].points)
	require.Zero(t, contours[1].area())

	a, b := minAreaRectSides(contours[1].points)
	require.InDelta(t, 4, a, 1e-9)
	require.Zero(t, b)
}

func TestMinAreaRectSides_Rotated(t *testing.T) {
	diamond := []image.Point{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}, {X: 5, Y: 5}}
	a, b := minAreaRectSides(diamond)
	require.InDelta(t, math.Sqrt(50), a, 1e-9)
	require.InDelta(t, math.Sqrt(50), b, 1e-9)
}

func TestMinAreaRectSides_Degenerate(t *testing.T) {
	a, b := minAreaRectSides(nil)
	require.Zero(t, a)
	require.Zero(t, b)

	a, b = minAreaRectSides([]image.Point{{X: 3, Y: 3}, {X: 3, Y: 3}})
	require.Zero(t, a)
	require.Zero(t, b)
}

func TestNLMeansDenoiser_SolidImageUnchanged(t *testing.T) {
	var log entity.AnalysisLog
	src := solidBuffer(12, 8, 90, 40, 30)
	out := NewNLMeansDenoiser().Denoise(src, &log)

	require.Equal(t, src.Width, out.Width)
	require.Equal(t, src.Height, out.Height)
	require.Equal(t, src.Pix, out.Pix)
	require.Equal(t, 3, log.Len())
}

func TestNLMeansDenoiser_PreservesStrongEdges(t *testing.T) {
	var log entity.AnalysisLog
	src := squareOnBackground(20, 20, 5, 5, 10, white, red)
	out := NewNLMeansDenoiser().Denoise(src, &log)

	r, g, b := out.At(10, 10)
	require.Equal(t, []uint8{200, 20, 20}, []uint8{r, g, b})
	r, g, b = out.At(1, 1)
	require.Equal(t, []uint8{255, 255, 255}, []uint8{r, g, b})
}

func TestColorSegmenter_RedSquare(t *testing.T) {
	var log entity.AnalysisLog
	img := squareOnBackground(40, 40, 10, 10, 20, white, red)
	seg := NewColorSegmenter().Segment(img, noise.Disabled{}, &log)

	require.Equal(t, 400, seg.Mask.Count())
	require.InDelta(t, 0.25, seg.Coverage, 1e-9)
	require.Greater(t, seg.Sharpness, 0.0)
	require.InDelta(t, 0.65+0.2*seg.Sharpness+0.1, seg.Confidence, 1e-9)
	require.Contains(t, log.Lines(), "Wound coverage: 25.00%")
}

func TestColorSegmenter_EmptyMask(t *testing.T) {
	var log entity.AnalysisLog
	seg := NewColorSegmenter().Segment(solidBuffer(16, 16, 255, 255, 255), noise.Disabled{}, &log)

	require.True(t, seg.Mask.Empty())
	require.Zero(t, seg.Coverage)
	require.Zero(t, seg.Sharpness)
	require.InDelta(t, 0.65, seg.Confidence, 1e-9)
	require.Contains(t, log.Lines(), "Image sharpness: 0.00")
}

func TestConfidence_Clamped(t *testing.T) {
	for seed := uint64(1); seed < 200; seed++ {
		c := confidence(1, 1, noise.NewSource(seed))
		require.GreaterOrEqual(t, c, 0.40)
		require.LessOrEqual(t, c, 0.98)
		require.InDelta(t, 0.95, c, 0.02+1e-9)
	}
}

func TestContourMeasurer_FullFrame(t *testing.T) {
	var log entity.AnalysisLog
	m := rectMask(100, 60, image.Rect(0, 0, 100, 60))
	dims := NewContourMeasurer(0.05).Measure(m, noise.Disabled{}, &log)

	require.Equal(t, entity.Dimensions{LengthCM: 4.95, WidthCM: 2.95, DepthCM: 0.5}, dims)
	require.Contains(t, log.Lines(), "Computed raw dimensions: 99.0px x 59.0px")
}

func TestContourMeasurer_PicksLargestContour(t *testing.T) {
	var log entity.AnalysisLog
	m := rectMask(80, 80, image.Rect(0, 0, 11, 11), image.Rect(20, 20, 61, 41))
	dims := NewContourMeasurer(0.1).Measure(m, noise.Disabled{}, &log)

	require.InDelta(t, 4.0, dims.LengthCM, 1e-9)
	require.InDelta(t, 2.0, dims.WidthCM, 1e-9)
}

func TestContourMeasurer_EmptyMask(t *testing.T) {
	var log entity.AnalysisLog
	dims := NewContourMeasurer(0.05).Measure(entity.NewWoundMask(10, 10), noise.NewSource(3), &log)

	require.Equal(t, entity.Dimensions{LengthCM: 0, WidthCM: 0, DepthCM: 0.5}, dims)
	require.Contains(t, log.Lines(), "No wound contour detected")
}

func TestContourMeasurer_LengthNotShorterThanWidth(t *testing.T) {
	m := rectMask(40, 40, image.Rect(5, 5, 35, 35))
	for seed := uint64(1); seed <= 300; seed++ {
		var log entity.AnalysisLog
		dims := NewContourMeasurer(0.05).Measure(m, noise.NewSource(seed), &log)
		require.GreaterOrEqual(t, dims.LengthCM, dims.WidthCM, "seed %d", seed)
		require.InDelta(t, 1.45, dims.LengthCM, 0.04)
	}
}

func TestColorTissueClassifier_EmptyMask(t *testing.T) {
	var log entity.AnalysisLog
	tissue := NewColorTissueClassifier().Classify(solidBuffer(5, 5, 50, 5, 5), entity.NewWoundMask(5, 5), &log)
	require.Equal(t, entity.TissueComposition{}, tissue)
}

func TestColorTissueClassifier_Regimes(t *testing.T) {
	tests := []struct {
		name string
		rgb  [3]uint8
		want entity.TissueComposition
	}{
		{name: "dark", rgb: [3]uint8{50, 5, 5}, want: entity.TissueComposition{Granulation: 10, Slough: 10, Necrotic: 90}},
		{name: "bright", rgb: [3]uint8{200, 180, 40}, want: entity.TissueComposition{Granulation: 5, Slough: 90, Necrotic: 5}},
		{name: "normal", rgb: [3]uint8{180, 60, 50}, want: entity.TissueComposition{Granulation: 81.1, Slough: 13.3, Necrotic: 5.7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log entity.AnalysisLog
			img := solidBuffer(6, 6, tt.rgb[0], tt.rgb[1], tt.rgb[2])
			mask := rectMask(6, 6, image.Rect(0, 0, 6, 6))
			got := NewColorTissueClassifier().Classify(img, mask, &log)
			require.InDelta(t, tt.want.Granulation, got.Granulation, 1e-9)
			require.InDelta(t, tt.want.Slough, got.Slough, 1e-9)
			require.InDelta(t, tt.want.Necrotic, got.Necrotic, 1e-9)
		})
	}
}

func TestColorTissueClassifier_OnlyMaskedPixels(t *testing.T) {
	var log entity.AnalysisLog
	img := squareOnBackground(10, 10, 0, 0, 5, white, [3]uint8{50, 5, 5})
	mask := rectMask(10, 10, image.Rect(0, 0, 5, 5))
	got := NewColorTissueClassifier().Classify(img, mask, &log)
	require.InDelta(t, 90.0, got.Necrotic, 1e-9)
}

func TestCompositionFromMean_WithinBounds(t *testing.T) {
	for r := 0.0; r <= 255; r += 15 {
		for g := 0.0; g <= 255; g += 15 {
			for b := 0.0; b <= 255; b += 15 {
				tissue, _ := compositionFromMean(r, g, b)
				for _, v := range []float64{tissue.Granulation, tissue.Slough, tissue.Necrotic} {
					require.GreaterOrEqual(t, v, 0.0, "rgb %v %v %v", r, g, b)
					require.LessOrEqual(t, v, 100.0, "rgb %v %v %v", r, g, b)
				}
			}
		}
	}
}

func TestNewBackend(t *testing.T) {
	b := NewHeuristicBackend(0.05, DefaultLimits())
	require.Equal(t, "heuristic", b.Name)
	require.NotNil(t, b.Decoder)
	require.NotNil(t, b.Preprocessor)
	require.NotNil(t, b.Segmenter)
	require.NotNil(t, b.Dimensions)
	require.NotNil(t, b.Tissue)
}

func TestContourMeasurer_ScaledMask(t *testing.T) {
	var log entity.AnalysisLog
	m := rectMask(100, 50, image.Rect(0, 0, 100, 50))
	m.Scale = 3
	dims := NewContourMeasurer(0.05).Measure(m, noise.Disabled{}, &log)

	require.InDelta(t, 14.85, dims.LengthCM, 1e-9)
	require.InDelta(t, 7.35, dims.WidthCM, 1e-9)
	require.Contains(t, log.Lines(), "Computed raw dimensions: 297.0px x 147.0px")
}

func TestScalePropagatesToMask(t *testing.T) {
	var log entity.AnalysisLog
	img := squareOnBackground(20, 20, 5, 5, 10, white, red)
	img.Scale = 2.5

	out := NewNLMeansDenoiser().Denoise(img, &log)
	require.InDelta(t, 2.5, out.Scale, 1e-9)
	require.Contains(t, log.Lines(), "Image downscaled by 2.50x for analysis")

	seg := NewColorSegmenter().Segment(out, noise.Disabled{}, &log)
	require.InDelta(t, 2.5, seg.Mask.SourceScale(), 1e-9)
}
