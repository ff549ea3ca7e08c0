// Command esp_synth_ui is a desktop stand-in for the synth's front panel:
// six tabs of encoders, a computer-keyboard piano and a scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/jackss011/esp-synth"
	"github.com/jackss011/esp-synth/internal/midiport"
	"github.com/jackss011/esp-synth/internal/panel"
)

const (
	windowW    = 900
	windowH    = 560
	minWindowW = 760
	minWindowH = 480
)

// pianoKeys is one octave and a bit on the bottom two rows, tracker style.
var pianoKeys = []ebiten.Key{
	ebiten.KeyZ, ebiten.KeyS, ebiten.KeyX, ebiten.KeyD, ebiten.KeyC, ebiten.KeyV,
	ebiten.KeyG, ebiten.KeyB, ebiten.KeyH, ebiten.KeyN, ebiten.KeyJ, ebiten.KeyM,
	ebiten.KeyComma, ebiten.KeyL, ebiten.KeyPeriod,
}

// encoderKeys turns each encoder one detent down or up.
var encoderKeys = [3][2]ebiten.Key{
	{ebiten.KeyDigit1, ebiten.KeyDigit2},
	{ebiten.KeyDigit3, ebiten.KeyDigit4},
	{ebiten.KeyDigit5, ebiten.KeyDigit6},
}

var eqBandLabels = [5]string{"Lo", "LoM", "Mid", "HiM", "Hi"}

type game struct {
	player   *espsynth.Player
	panel    *panel.Panel
	analyzer *analyzer
	scope    scope
	logger   *slog.Logger

	octave int
	held   map[ebiten.Key]espsynth.Note
	volume float64
	eq     [5]float64

	draggingEQ int

	clipboardOnce sync.Once
	clipboardOK   bool

	status    string
	statusErr bool

	viewW, viewH int
}

func newGame(logger *slog.Logger) (*game, error) {
	a := newAnalyzer(espsynth.SampleRate)
	p := panel.New()
	pl, err := espsynth.NewPlayer(espsynth.SampleRate,
		espsynth.WithBackend(espsynth.BackendEbiten),
		espsynth.WithLogger(logger),
		espsynth.WithSampleTap(a.Tap),
		espsynth.WithConfig(p.Config()),
	)
	if err != nil {
		return nil, err
	}
	if err := pl.Play(); err != nil {
		return nil, err
	}
	return &game{
		player:     pl,
		panel:      p,
		analyzer:   a,
		logger:     logger,
		octave:     4,
		held:       make(map[ebiten.Key]espsynth.Note),
		volume:     1,
		eq:         [5]float64{1, 1, 1, 1, 1},
		draggingEQ: -1,
		status:     "Ready",
		viewW:      windowW,
		viewH:      windowH,
	}, nil
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()

	for i, t := range g.panel.Tabs() {
		drawButton(screen, l.tabs[i], t.Name, i == g.panel.CurrentIndex())
	}
	g.drawGrid(screen, l)
	drawPanel(screen, l.eq)
	g.drawEQ(screen, l.eq)

	fillRect(screen, l.scope, bgColor)
	drawSunkenPanel(screen, l.scope)
	inner := l.scope.Inset(6)
	g.scope.draw(screen, g.analyzer.Snapshot(fftSize), espsynth.SampleRate, inner.Min.X, inner.Min.Y, inner.Dx(), inner.Dy())

	drawSunkenPanel(screen, l.status)
	g.drawStatus(screen, l.status)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func (g *game) Close() {
	for k, n := range g.held {
		g.player.NoteOff(n)
		delete(g.held, k)
	}
	_ = g.player.Stop()
}

type uiLayout struct {
	tabs   []image.Rectangle
	cells  [2][3]image.Rectangle
	eq     image.Rectangle
	scope  image.Rectangle
	status image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	const (
		pad    = 10
		tabH   = 28
		cellH  = 70
		eqW    = 200
		statH  = 24
		gutter = 6
	)
	var l uiLayout
	tabs := g.panel.Tabs()
	tabW := (g.viewW - 2*pad - (len(tabs)-1)*gutter) / len(tabs)
	for i := range tabs {
		x := pad + i*(tabW+gutter)
		l.tabs = append(l.tabs, image.Rect(x, pad, x+tabW, pad+tabH))
	}

	gridTop := pad + tabH + gutter
	gridW := g.viewW - 2*pad - eqW - gutter
	cellW := (gridW - 2*gutter) / 3
	for row := range 2 {
		for col := range 3 {
			x := pad + col*(cellW+gutter)
			y := gridTop + row*(cellH+gutter)
			l.cells[row][col] = image.Rect(x, y, x+cellW, y+cellH)
		}
	}
	gridBottom := gridTop + 2*cellH + gutter
	l.eq = image.Rect(g.viewW-pad-eqW, gridTop, g.viewW-pad, gridBottom)
	l.status = image.Rect(pad, g.viewH-pad-statH, g.viewW-pad, g.viewH-pad)
	l.scope = image.Rect(pad, gridBottom+gutter, g.viewW-pad, l.status.Min.Y-gutter)
	return l
}

func (g *game) drawGrid(screen *ebiten.Image, l uiLayout) {
	tab := g.panel.Current()
	shifted := g.panel.Shifted()
	for row := range 2 {
		active := (row == 1) == shifted
		for col := range 3 {
			r := l.cells[row][col]
			w := tab.Grid[row][col]
			if w == nil {
				fillRect(screen, r, bgColor)
				drawSunkenBorder(screen, r)
				continue
			}
			drawPanel(screen, r)
			c := dimTextColor
			if active {
				c = textColor
			}
			drawText(screen, w.Key(), r.Min.X+8, r.Min.Y+8, c)
			label := w.Label()
			drawText(screen, label, r.Max.X-8-textWidth(label), r.Min.Y+8, c)
			bar := image.Rect(r.Min.X+8, r.Max.Y-24, r.Max.X-8, r.Max.Y-10)
			drawSlider(screen, bar, w.Position())
		}
	}
}

func (g *game) drawEQ(screen *ebiten.Image, rect image.Rectangle) {
	const pad, labelH = 8, 18
	innerX := rect.Min.X + pad
	innerW := rect.Dx() - pad*2
	innerY := rect.Min.Y + pad
	innerH := rect.Dy() - labelH - pad*2
	bandW := innerW / len(g.eq)
	if bandW < 10 {
		return
	}
	for i := range g.eq {
		bx := innerX + i*bandW
		bw := bandW - 4
		fillRect(screen, image.Rect(bx+bw/2-2, innerY, bx+bw/2+2, innerY+innerH), bevelDarker)
		fillRect(screen, image.Rect(bx, innerY+innerH/2, bx+bw, innerY+innerH/2+1), borderColor)

		frac := clamp(g.eq[i]/2, 0, 1)
		knobY := innerY + innerH - int(frac*float64(innerH)) - 4
		knob := image.Rect(bx+2, knobY, bx+bw-2, knobY+8)
		drawPanel(screen, knob)
		drawText(screen, eqBandLabels[i], bx+(bw-textWidth(eqBandLabels[i]))/2, innerY+innerH+4, textColor)
	}
}

func (g *game) drawStatus(screen *ebiten.Image, rect image.Rectangle) {
	msg := fmt.Sprintf("oct %d  vol %.2f  ", g.octave, g.volume)
	if g.statusErr {
		msg += "ERROR - "
	}
	msg += g.status
	maxChars := max(8, (rect.Dx()-16)/charW)
	drawText(screen, shortenEnd(msg, maxChars), rect.Min.X+8, rect.Min.Y+(rect.Dy()-lineH)/2, textColor)
}

func (g *game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyShiftRight) {
		g.input(panel.InputEvent{ID: panel.BtnShift, Value: panel.Press})
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyShiftLeft) || inpututil.IsKeyJustReleased(ebiten.KeyShiftRight) {
		g.input(panel.InputEvent{ID: panel.BtnShift, Value: panel.Release})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.input(panel.InputEvent{ID: panel.BtnLeft, Value: panel.Press})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.input(panel.InputEvent{ID: panel.BtnRight, Value: panel.Press})
	}
	for i, keys := range encoderKeys {
		for dir, k := range keys {
			if inpututil.IsKeyJustPressed(k) {
				g.turn(i, int16(dir*2-1), g.panel.Shifted())
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && g.octave < 8 {
		g.releaseAll()
		g.octave++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && g.octave > 0 {
		g.releaseAll()
		g.octave--
	}
	for i, k := range pianoKeys {
		if inpututil.IsKeyJustPressed(k) {
			n := 12*(g.octave+1) + i
			if n > 127 {
				continue
			}
			note := espsynth.Note(n)
			g.held[k] = note
			g.player.NoteOn(note, 100)
		}
		if inpututil.IsKeyJustReleased(k) {
			if note, ok := g.held[k]; ok {
				delete(g.held, k)
				g.player.NoteOff(note)
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.setVolume(g.volume - 0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.setVolume(g.volume + 0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.copyPatch()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.pastePatch()
	}
}

func (g *game) handleMouse() {
	l := g.layoutRects()
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i, r := range l.tabs {
			if pointInRect(mx, my, r) {
				g.panel.Select(g.panel.Tabs()[i].Name)
				return
			}
		}
		if pointInRect(mx, my, l.eq) {
			g.draggingEQ = g.eqBandFromMouse(mx, l.eq)
		}
	}
	if g.draggingEQ >= 0 {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragEQ(my, l.eq)
		} else {
			g.draggingEQ = -1
		}
	}

	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	dir := int16(1)
	if wy < 0 {
		dir = -1
	}
	for row := range 2 {
		for col := range 3 {
			if !pointInRect(mx, my, l.cells[row][col]) {
				continue
			}
			// The wheel addresses the cell under the cursor, whatever
			// the shift key says.
			g.turn(col, dir, row == 1)
			return
		}
	}
}

func (g *game) turn(encoder int, dir int16, shifted bool) {
	ev := panel.InputEvent{ID: panel.Encoder0 + panel.InputID(encoder), Value: dir, Shifted: shifted}
	g.input(ev)
	if w := g.panel.Current().Cell(ev); w != nil {
		g.setStatus(fmt.Sprintf("%s %s: %s", g.panel.Current().Name, w.Key(), w.Label()))
	}
}

// input feeds the panel and posts the configuration only when it changed.
func (g *game) input(ev panel.InputEvent) {
	if g.panel.Process(ev) {
		g.player.UpdateConfig(g.panel.Config())
	}
}

func (g *game) releaseAll() {
	for k, n := range g.held {
		g.player.NoteOff(n)
		delete(g.held, k)
	}
}

func (g *game) setVolume(v float64) {
	g.volume = clamp(v, 0, 2)
	g.player.SetMasterVolume(g.volume)
}

func (g *game) eqBandFromMouse(mx int, rect image.Rectangle) int {
	const pad = 8
	bandW := (rect.Dx() - pad*2) / len(g.eq)
	if bandW <= 0 {
		return -1
	}
	idx := (mx - rect.Min.X - pad) / bandW
	if idx < 0 || idx >= len(g.eq) {
		return -1
	}
	return idx
}

func (g *game) dragEQ(my int, rect image.Rectangle) {
	const pad, labelH = 8, 18
	innerY := rect.Min.Y + pad
	innerH := rect.Dy() - labelH - pad*2
	if innerH <= 0 {
		return
	}
	band := g.draggingEQ
	gain := (1 - clamp(float64(my-innerY)/float64(innerH), 0, 1)) * 2
	g.eq[band] = gain
	g.player.SetEQBand(band, float32(gain))
	g.setStatus(fmt.Sprintf("EQ %s: %.1f", eqBandLabels[band], gain))
}

func (g *game) clipboardReady() bool {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		g.setError("clipboard unavailable")
	}
	return g.clipboardOK
}

func (g *game) copyPatch() {
	if !g.clipboardReady() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(espsynth.FormatPatch(g.player.Config())))
	g.setStatus("patch copied")
}

// pastePatch loads a Lua patch from the clipboard. The panel keeps its own
// state and takes over again on the next edit.
func (g *game) pastePatch() {
	if !g.clipboardReady() {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		g.setError("clipboard is empty")
		return
	}
	p, err := espsynth.LoadPatch(string(data))
	if err != nil {
		g.setError(err.Error())
		return
	}
	g.player.UpdateConfig(p.Config)
	g.setStatus("patch loaded")
}

func (g *game) setError(msg string) {
	g.status = msg
	g.statusErr = true
	g.logger.Warn(msg)
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusErr = false
}

func main() {
	var (
		midiName = flag.String("midi", "", "MIDI input name (substring)")
		debug    = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if *debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))

	g, err := newGame(logger)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *midiName != "" {
		go func() {
			src := midiport.New(*midiName, g.player.Send, logger)
			if err := src.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("midi input stopped", "err", err)
			}
		}()
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("esp-synth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
