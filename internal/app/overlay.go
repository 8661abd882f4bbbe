package app

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/engine"
)

var (
	signColor     = color.RGBA{R: 255, G: 200, B: 0}
	barBackground = color.RGBA{R: 50, G: 50, B: 50}
	barFill       = color.RGBA{R: 255, G: 180, B: 0}
	textColor     = color.RGBA{R: 255, G: 255, B: 255}
)

// Readiness bar geometry in pixels.
const (
	barX     = 30
	barY     = 110
	barWidth = 300
	barH     = 18
)

// annotate draws the current sign, readiness bar, sentence and frame rate
// onto frame for the MJPEG stream.
func annotate(frame *gocv.Mat, snap engine.Snapshot) {
	gocv.PutText(frame, "Sign: "+snap.Display.String(), image.Pt(30, 70), gocv.FontHersheyDuplex, 2.0, signColor, 3)

	gocv.Rectangle(frame, image.Rect(barX-2, barY-2, barX+barWidth+2, barY+barH+4), barBackground, -1)
	fill := int(float64(barWidth) * snap.Readiness)
	if fill > 0 {
		gocv.Rectangle(frame, image.Rect(barX, barY, barX+fill, barY+barH), barFill, -1)
	}

	gocv.PutText(frame, snap.Sentence, image.Pt(30, 160), gocv.FontHersheySimplex, 1.0, textColor, 2)

	fps := fmt.Sprintf("%.0f fps", snap.FPS)
	gocv.PutText(frame, fps, image.Pt(30, frame.Rows()-20), gocv.FontHersheySimplex, 0.6, textColor, 1)
}
