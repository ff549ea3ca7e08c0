package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	bgColor        = color.RGBA{192, 192, 192, 255}
	panelColor     = color.RGBA{192, 192, 192, 255}
	borderColor    = color.RGBA{128, 128, 128, 255}
	textColor      = color.RGBA{255, 255, 255, 255}
	dimTextColor   = color.RGBA{120, 120, 140, 255}
	highlightColor = color.RGBA{0, 0, 128, 255}

	bevelLight  = color.RGBA{255, 255, 255, 255}
	bevelDarker = color.RGBA{64, 64, 64, 255}

	sunkenBgColor   = color.RGBA{24, 24, 32, 255}
	sliderFillColor = color.RGBA{0, 0, 128, 255}
)

const (
	charW = 7
	lineH = 13
)

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	ebitenutil.DrawRect(dst, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), c)
}

func drawPanel(dst *ebiten.Image, r image.Rectangle) {
	fillRect(dst, r, panelColor)
	drawBorder(dst, r)
}

func drawSunkenPanel(dst *ebiten.Image, r image.Rectangle) {
	fillRect(dst, r, sunkenBgColor)
	drawSunkenBorder(dst, r)
}

func drawButton(dst *ebiten.Image, r image.Rectangle, label string, active bool) {
	if active {
		fillRect(dst, r, highlightColor)
		drawSunkenBorder(dst, r)
	} else {
		drawPanel(dst, r)
	}
	x := r.Min.X + (r.Dx()-len(label)*charW)/2
	y := r.Min.Y + (r.Dy()-lineH)/2
	drawText(dst, label, x, y, textColor)
}

// drawBorder draws a raised bevel: highlight top and left, shadow bottom
// and right.
func drawBorder(dst *ebiten.Image, r image.Rectangle) {
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())
	ebitenutil.DrawRect(dst, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(dst, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(dst, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(dst, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(dst, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(dst, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder is drawBorder with light and shadow swapped.
func drawSunkenBorder(dst *ebiten.Image, r image.Rectangle) {
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())
	ebitenutil.DrawRect(dst, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(dst, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(dst, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(dst, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(dst, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(dst, x+1, y+2, 1, h-4, bevelDarker)
}

// drawText draws msg with its top-left corner at x, y and a drop shadow.
func drawText(dst *ebiten.Image, msg string, x, y int, c color.Color) {
	if msg == "" {
		return
	}
	face := basicfont.Face7x13
	base := y + face.Ascent
	text.Draw(dst, msg, face, x+1, base+1, color.Black)
	text.Draw(dst, msg, face, x, base, c)
}

func textWidth(msg string) int {
	return text.BoundString(basicfont.Face7x13, msg).Dx()
}

// drawSlider draws a horizontal position bar filled to frac.
func drawSlider(dst *ebiten.Image, r image.Rectangle, frac float32) {
	drawSunkenPanel(dst, r)
	frac = min(max(frac, 0), 1)
	fill := image.Rect(r.Min.X+2, r.Min.Y+2, r.Min.X+2+int(frac*float32(r.Dx()-4)), r.Max.Y-2)
	fillRect(dst, fill, sliderFillColor)
}

func shortenEnd(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return string(r[:max(0, maxChars)])
	}
	return string(r[:maxChars-3]) + "..."
}

func clamp(v, minV, maxV float64) float64 {
	return min(max(v, minV), maxV)
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}
