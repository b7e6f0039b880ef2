package render

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ScreenshotOptions control how a captured frame is written.
type ScreenshotOptions struct {
	// Scale resizes the image; values <= 0 or 1 keep the captured size.
	Scale float64
	// Caption is drawn on a darkened band along the bottom edge.
	Caption string
}

// ScreenshotName returns the file name for a screenshot taken at t: the
// local time as yyyyMMddHHmmss followed by three digits of milliseconds.
func ScreenshotName(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)) + ".png"
}

// SaveScreenshot writes img into dir under ScreenshotName(now) and returns
// the full path.
func SaveScreenshot(img image.Image, dir string, now time.Time, opts ScreenshotOptions) (string, error) {
	out := PrepareScreenshot(img, opts)
	path := filepath.Join(dir, ScreenshotName(now))
	if err := savePNG(path, out); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return path, nil
}

// PrepareScreenshot applies scaling and the caption to a captured frame.
func PrepareScreenshot(img image.Image, opts ScreenshotOptions) image.Image {
	if opts.Scale > 0 && opts.Scale != 1 {
		w := uint(float64(img.Bounds().Dx()) * opts.Scale)
		img = resize.Resize(max(w, 1), 0, img, resize.Lanczos3)
	}
	if opts.Caption == "" {
		return img
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	drawCaption(rgba, opts.Caption)
	return rgba
}

func drawCaption(img *image.RGBA, caption string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	band := face.Metrics().Height.Ceil() + 4
	top := max(b.Max.Y-band, b.Min.Y)

	for y := top; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, lerpColor(img.RGBAAt(x, y), ColorBlack, 0.6))
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ColorWhite),
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Max.Y-4),
	}
	d.DrawString(caption)
}
