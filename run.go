package arbor

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS adds a debug overlay with FPS, TPS, and the caught and focused
	// element names.
	ShowFPS bool
	// Resizable lets the user resize the window; the viewport follows.
	Resizable bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	w, h  int
	fixed bool
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.DrawScreen(screen)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	if g.fixed {
		return g.w, g.h
	}
	if outsideW != g.w || outsideH != g.h {
		g.w, g.h = outsideW, outsideH
		g.scene.SetViewport(float64(outsideW), float64(outsideH))
	}
	return outsideW, outsideH
}

// Run opens a window and drives scene with Ebitengine's game loop. It blocks
// until the window is closed or Update returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = int(scene.viewport.Width), int(scene.viewport.Height)
	}
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	scene.SetViewport(float64(w), float64(h))
	if cfg.ShowFPS {
		scene.Add(NewDebugOverlay())
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{scene: scene, w: w, h: h, fixed: !cfg.Resizable})
}
