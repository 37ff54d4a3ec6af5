package regions

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docfuse/model"
)

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
}

func fillDisk(img *image.RGBA, cx, cy, radius int) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func strokeRing(img *image.RGBA, cx, cy, outer, inner int) {
	for y := cy - outer; y <= cy+outer; y++ {
		for x := cx - outer; x <= cx+outer; x++ {
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d <= outer*outer && d > inner*inner {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func TestDetectClassifiesShapes(t *testing.T) {
	img := whitePage(300, 240)
	fillDisk(img, 50, 50, 20)                     // stamp
	fillRect(img, image.Rect(120, 30, 150, 60))   // logo
	fillRect(img, image.Rect(20, 150, 100, 156))  // icon
	fillRect(img, image.Rect(200, 200, 205, 205)) // too small
	fillRect(img, image.Rect(200, 100, 260, 130)) // covered by text

	text := []model.TextFragment{{
		Text:       "Batch 42",
		Confidence: 0.9,
		BBox:       model.RectQuad(195, 95, 265, 135),
		Engine:     "test",
		Page:       1,
	}}

	icons, err := NewDetector().Detect(img, text)
	require.NoError(t, err)
	require.Len(t, icons, 3)

	assert.Equal(t, model.IconStamp, icons[0].Type)
	assert.Equal(t, model.IconLogo, icons[1].Type)
	assert.Equal(t, model.IconIcon, icons[2].Type)

	for _, ic := range icons {
		assert.Equal(t, Engine, ic.Engine)
		assert.Equal(t, 0.8, ic.Confidence)
		assert.NotEmpty(t, ic.RawPixels)
	}

	b := icons[1].BBox.Bounds()
	assert.Equal(t, 120.0, b.Left())
	assert.Equal(t, 30.0, b.Top())
	assert.Equal(t, 150.0, b.Right())
	assert.Equal(t, 60.0, b.Bottom())

	crop, err := png.Decode(bytes.NewReader(icons[1].RawPixels))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 30), crop.Bounds())
}

func TestDetectRingIsStamp(t *testing.T) {
	img := whitePage(120, 120)
	strokeRing(img, 60, 60, 30, 25)

	icons, err := NewDetector().Detect(img, nil)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Equal(t, model.IconStamp, icons[0].Type)
}

func TestDetectBlankPage(t *testing.T) {
	icons, err := NewDetector().Detect(whitePage(50, 50), nil)
	require.NoError(t, err)
	assert.NotNil(t, icons)
	assert.Empty(t, icons)
}

func TestDetectWithoutCrops(t *testing.T) {
	img := whitePage(100, 100)
	fillRect(img, image.Rect(10, 10, 40, 40))

	cfg := DefaultConfig()
	cfg.EncodeCrops = false
	cfg.Confidence = 0.5
	icons, err := NewDetectorWithConfig(cfg).Detect(img, nil)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Nil(t, icons[0].RawPixels)
	assert.Equal(t, 0.5, icons[0].Confidence)
}

func TestDetectOffsetImage(t *testing.T) {
	page := whitePage(100, 100)
	fillRect(page, image.Rect(60, 60, 90, 90))
	sub := page.SubImage(image.Rect(50, 50, 100, 100))

	icons, err := NewDetector().Detect(sub, nil)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	b := icons[0].BBox.Bounds()
	assert.Equal(t, 10.0, b.Left())
	assert.Equal(t, 10.0, b.Top())
}

func TestDetectEmptyImage(t *testing.T) {
	_, err := NewDetector().Detect(image.NewGray(image.Rectangle{}), nil)
	assert.Error(t, err)
	_, err = NewDetector().Detect(nil, nil)
	assert.Error(t, err)
}
