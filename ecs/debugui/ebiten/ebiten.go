// Package ebiten drives an ecs.Scheduler from the Ebiten game loop and
// renders the Dear ImGui panels of the debugui package on top of it.
package ebiten

import (
	"context"
	"errors"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/healthregen/ecs"
	"github.com/plus3/healthregen/ecs/debugui"
	"github.com/rotisserie/eris"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Game implements ebiten.Game. Every Ebiten tick runs the scheduler once
// with a fixed delta of one tick, wrapped in an ImGui frame.
type Game struct {
	scheduler *ecs.Scheduler
	backend   *ImguiBackend
	ctx       context.Context
	clock     *ecs.Singleton[ecs.Time]
	input     *ecs.Singleton[debugui.ImguiInputState]

	// MaxTicks ends the game after that many ticks. Zero means no limit.
	MaxTicks uint64
	// TickDelta returns the simulated seconds per tick. Defaults to 1/TPS.
	TickDelta func() float64
	// QuitKey ends the game when pressed, unless Dear ImGui has keyboard focus.
	QuitKey ebiten.Key
	// KeyPressed reports a key press. Defaults to inpututil.IsKeyJustPressed.
	KeyPressed func(ebiten.Key) bool
}

// NewGame creates a Game. backend may be nil, in which case no ImGui frame is opened.
func NewGame(ctx context.Context, scheduler *ecs.Scheduler, backend *ImguiBackend) *Game {
	return &Game{
		scheduler: scheduler,
		backend:   backend,
		ctx:       ctx,
		clock:     ecs.NewSingleton[ecs.Time](scheduler.Storage()),
		input:     ecs.NewSingleton[debugui.ImguiInputState](scheduler.Storage()),
		TickDelta: func() float64 {
			return 1.0 / float64(ebiten.TPS())
		},
		QuitKey:    ebiten.KeyEscape,
		KeyPressed: inpututil.IsKeyJustPressed,
	}
}

// quitRequested reports whether QuitKey was pressed outside of an ImGui text field.
func (g *Game) quitRequested() bool {
	if state := g.input.Get(); state != nil && state.WantCaptureKeyboard {
		return false
	}
	return g.KeyPressed(g.QuitKey)
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	if !g.scheduler.Started() {
		if err := g.scheduler.Startup(); err != nil {
			return err
		}
	}

	if g.backend != nil {
		g.backend.BeginFrame()
	}
	err := g.scheduler.Once(g.TickDelta())
	if g.backend != nil {
		g.backend.EndFrame()
	}
	if err != nil {
		return err
	}

	if g.MaxTicks > 0 && g.clock.Get().Tick >= g.MaxTicks {
		return ebiten.Termination
	}
	if g.quitRequested() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// WindowOptions configures Run.
type WindowOptions struct {
	Title    string
	Width    int
	Height   int
	MaxTicks uint64
}

// Run opens a window and blocks until it is closed, ctx is cancelled, the
// quit key is pressed or MaxTicks is reached.
func Run(ctx context.Context, scheduler *ecs.Scheduler, opts WindowOptions) error {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(opts.Title, opts.Width, opts.Height)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	imguiBackend := ecs.NewSingleton[ImguiBackend](scheduler.Storage(), ImguiBackend{EbitenBackend: backend})

	game := NewGame(ctx, scheduler, imguiBackend.Get())
	game.MaxTicks = opts.MaxTicks

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return eris.Wrap(err, "ebiten game loop")
	}
	return nil
}
