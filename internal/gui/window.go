package gui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetravel/internal/scene"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(255, 255, 255, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
	ColGrid    = rl.NewColor(70, 70, 70, 255)
	ColPath    = rl.NewColor(0, 255, 255, 255)
	ColPanel   = rl.NewColor(20, 20, 20, 220)
)

const (
	screenWidth  = 1280
	screenHeight = 900
	marginLeft   = 110
	marginTop    = 70
	marginBottom = 80
)

// Window renders a scene in a desktop window and plays its animation.
type Window struct {
	scene    *scene.Scene
	assets   string
	textures map[string]rl.Texture2D
	trail    []rl.Color
	start    time.Time
	frame    int

	plotX, plotY, plotSize float32
}

func NewWindow(s *scene.Scene, assets string) *Window {
	size := float32(math.Min(screenWidth-marginLeft-260, screenHeight-marginTop-marginBottom))
	return &Window{
		scene:    s,
		assets:   assets,
		textures: make(map[string]rl.Texture2D),
		trail:    trailColors(s.Len()),
		plotX:    marginLeft,
		plotY:    marginTop,
		plotSize: size,
	}
}

func initWindow(title string) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until the user closes it or ctx ends.
func (w *Window) Run(ctx context.Context) error {
	if err := scene.CheckAssets(w.assets, w.scene.Icons()...); err != nil {
		return err
	}

	initWindow(w.scene.Title)
	defer rl.CloseWindow()

	if err := w.loadTextures(); err != nil {
		return err
	}
	defer w.unloadTextures()

	w.start = time.Now()
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.frame = w.scene.FrameAt(time.Since(w.start))
		w.Draw()
	}
	return nil
}

func (w *Window) loadTextures() error {
	for _, name := range w.scene.Icons() {
		tex := rl.LoadTexture(filepath.Join(w.assets, name))
		if tex.ID == 0 {
			return fmt.Errorf("%w: cannot load %s", scene.ErrMissingAsset, name)
		}
		rl.SetTextureFilter(tex, rl.FilterBilinear)
		w.textures[name] = tex
	}
	return nil
}

func (w *Window) unloadTextures() {
	for name, tex := range w.textures {
		rl.UnloadTexture(tex)
		delete(w.textures, name)
	}
}

func (w *Window) project(p r2.Vec) rl.Vector2 {
	x, y := w.scene.Project(p, float64(w.plotSize), float64(w.plotSize))
	return rl.NewVector2(w.plotX+float32(x), w.plotY+float32(y))
}

func (w *Window) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ColBg)
	f := w.scene.Frame(w.frame)

	w.drawAxes()

	rl.BeginScissorMode(int32(w.plotX), int32(w.plotY), int32(w.plotSize), int32(w.plotSize))
	w.drawIcon(w.scene.Earth, w.scene.Earth.Pos)
	w.drawIcon(w.scene.Destination, w.scene.Destination.Pos)
	w.drawPath(f)
	w.drawIcon(w.scene.Spacecraft, f.Position)
	rl.EndScissorMode()

	w.drawReadout(f)
	w.drawLegend()
}

func (w *Window) drawAxes() {
	x0, y0, size := w.plotX, w.plotY, w.plotSize

	title := w.scene.Title
	tw := rl.MeasureText(title, 24)
	rl.DrawText(title, int32(x0+size/2)-tw/2, int32(y0)-45, 24, ColText)

	for _, v := range w.scene.Ticks(8) {
		p := w.project(r2.Vec{X: v, Y: v})
		dashed(rl.NewVector2(p.X, y0), rl.NewVector2(p.X, y0+size))
		dashed(rl.NewVector2(x0, p.Y), rl.NewVector2(x0+size, p.Y))

		label := tickLabel(v)
		lw := rl.MeasureText(label, 14)
		rl.DrawLine(int32(p.X), int32(y0+size), int32(p.X), int32(y0+size)+6, ColText)
		rl.DrawText(label, int32(p.X)-lw/2, int32(y0+size)+10, 14, ColText)
		rl.DrawLine(int32(x0)-6, int32(p.Y), int32(x0), int32(p.Y), ColText)
		rl.DrawText(label, int32(x0)-10-lw, int32(p.Y)-7, 14, ColText)
	}
	rl.DrawRectangleLinesEx(rl.NewRectangle(x0, y0, size, size), 1, ColText)

	xl := rl.MeasureText(w.scene.XLabel, 18)
	rl.DrawText(w.scene.XLabel, int32(x0+size/2)-xl/2, int32(y0+size)+40, 18, ColText)
	yl := float32(rl.MeasureText(w.scene.YLabel, 18))
	rl.DrawTextPro(rl.GetFontDefault(), w.scene.YLabel, rl.NewVector2(x0-95, y0+size/2+yl/2),
		rl.NewVector2(0, 0), -90, 18, 2, ColText)
}

func (w *Window) drawPath(f scene.Frame) {
	if len(f.Trail) < 2 {
		return
	}
	prev := w.project(f.Trail[0])
	for i, p := range f.Trail[1:] {
		cur := w.project(p)
		rl.DrawLineEx(prev, cur, 2, w.trail[i+1])
		prev = cur
	}
}

func (w *Window) drawIcon(icon scene.Icon, at r2.Vec) {
	tex, ok := w.textures[icon.File]
	if !ok {
		return
	}
	scale := float32(icon.Zoom)
	c := w.project(at)
	pos := rl.NewVector2(c.X-float32(tex.Width)*scale/2, c.Y-float32(tex.Height)*scale/2)
	rl.DrawTextureEx(tex, pos, 0, scale, rl.White)
}

func (w *Window) drawReadout(f scene.Frame) {
	x, y := int32(w.plotX)+12, int32(w.plotY)+12
	rl.DrawRectangle(x-6, y-6, 260, 56, ColPanel)
	rl.DrawRectangleLines(x-6, y-6, 260, 56, ColTextDim)
	rl.DrawText(f.Readout(), x, y, 20, ColText)
}

func (w *Window) drawLegend() {
	x := int32(w.plotX+w.plotSize) + 30
	y := int32(w.plotY)

	rl.DrawText("Legend", x, y, 20, ColText)
	y += 34
	rl.DrawLineEx(rl.NewVector2(float32(x), float32(y+8)), rl.NewVector2(float32(x+30), float32(y+8)), 2, ColPath)
	rl.DrawText("Trajectory", x+40, y, 18, ColText)

	for _, icon := range []scene.Icon{w.scene.Earth, w.scene.Destination, w.scene.Spacecraft} {
		y += 34
		if tex, ok := w.textures[icon.File]; ok {
			scale := 24 / float32(math.Max(float64(tex.Width), float64(tex.Height)))
			rl.DrawTextureEx(tex, rl.NewVector2(float32(x)+3, float32(y)-4), 0, scale, rl.White)
		}
		rl.DrawText(icon.Label, x+40, y, 18, ColText)
	}
}

func dashed(a, b rl.Vector2) {
	const dash, gap = 6, 6
	dx, dy := b.X-a.X, b.Y-a.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	for s := float32(0); s < length; s += dash + gap {
		e := float32(math.Min(float64(s+dash), float64(length)))
		rl.DrawLineV(rl.NewVector2(a.X+ux*s, a.Y+uy*s), rl.NewVector2(a.X+ux*e, a.Y+uy*e), ColGrid)
	}
}

func tickLabel(v float64) string {
	if math.Abs(v) >= 1e6 {
		return fmt.Sprintf("%.1e", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// trailColors fades the path from a dim cyan at launch to full cyan.
func trailColors(n int) []rl.Color {
	start := colorful.Color{R: 0, G: 0.25, B: 0.35}
	end := colorful.Color{R: float64(ColPath.R) / 255, G: float64(ColPath.G) / 255, B: float64(ColPath.B) / 255}

	out := make([]rl.Color, n)
	for i := range out {
		t := 1.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r, g, b := start.BlendLab(end, t).Clamped().RGB255()
		out[i] = rl.NewColor(r, g, b, 255)
	}
	return out
}
