package arbor

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Screenshot asks the next Draw to save its frame as
// ScreenshotDir/<timestamp>_<label>.png. Canvas and EbitenTarget frames can
// be captured; other targets log a warning.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// captureTarget returns the drawn frame of t as straight-alpha NRGBA, or nil
// for targets that cannot be read back.
func captureTarget(t Target) *image.NRGBA {
	var src image.Image
	switch t := t.(type) {
	case *Canvas:
		src = t.img
	case *EbitenTarget:
		src = t.dst
	default:
		return nil
	}
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Rect, src, b.Min, draw.Src)
	return img
}

// flushScreenshots writes the frame drawn on t once for every queued label.
// Called at the end of Scene.Draw.
func (s *Scene) flushScreenshots(t Target) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	img := captureTarget(t)
	if img == nil {
		s.logger.Warn("screenshot: target cannot be captured", "target", fmt.Sprintf("%T", t))
		return
	}
	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		s.logger.Error("screenshot: mkdir failed", "dir", s.ScreenshotDir, "err", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(s.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			s.logger.Error("screenshot failed", "err", err)
			continue
		}
		s.logger.Debug("screenshot written", "path", path)
	}
}

// sanitizeLabel maps every rune outside [A-Za-z0-9.-] to an underscore.
// Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, label)
}
