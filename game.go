package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/dragon/anim"
	"github.com/milk9111/dragon/input"
	"github.com/milk9111/dragon/manager"
	"github.com/milk9111/dragon/physics"
	"github.com/milk9111/dragon/player"
	"github.com/milk9111/dragon/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// killDepth is how far below the lowest platform the player may fall
	// before being respawned.
	killDepth = 20.0
)

type Options struct {
	Debug  bool
	Script string
	Watch  bool
	TPS    int
}

type Game struct {
	log    *zap.Logger
	opts   Options
	dt     float64
	frames int

	paused  bool
	pauseUI *ebitenui.UI

	root     *manager.Root
	keyboard *input.Keyboard
	inputs   *input.Manager
	world    *physics.World
	body     *physics.Body
	animator *anim.Animator
	player   *player.Controller
	camera   *physics.Camera
	script   *input.ScriptKeys
	watcher  *prefabs.Watcher

	platforms   []prefabs.RectSpec
	floorY      float64
	spawn       cp.Vector
	playerColor color.Color
	background  color.Color
}

func NewGame(opts Options, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}

	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	bindingsSpec, err := prefabs.LoadBindingsSpec()
	if err != nil {
		return nil, err
	}
	levelSpec, err := prefabs.LoadLevelSpec()
	if err != nil {
		return nil, err
	}
	layout, err := input.LayoutFromSpec(bindingsSpec)
	if err != nil {
		return nil, fmt.Errorf("game: bindings: %w", err)
	}

	g := &Game{
		log:         log,
		opts:        opts,
		dt:          1 / float64(opts.TPS),
		platforms:   levelSpec.Platforms,
		floorY:      lowestPlatform(levelSpec.Platforms),
		spawn:       cp.Vector{X: playerSpec.Spawn.X, Y: playerSpec.Spawn.Y},
		playerColor: playerSpec.Color.ColorOr(colornames.Crimson),
		background:  levelSpec.Background.ColorOr(colornames.Black),
	}

	var src input.KeySource = input.EbitenKeys{}
	if opts.Script != "" {
		data, err := prefabs.LoadScript(opts.Script)
		if err != nil {
			return nil, fmt.Errorf("game: load script %s: %w", opts.Script, err)
		}
		g.script, err = input.NewScriptKeys(data)
		if err != nil {
			return nil, err
		}
		src = g.script
		log.Info("playing input script", zap.String("script", opts.Script))
	}

	g.world = physics.NewWorld(levelSpec, log)
	g.body = g.world.NewBody(playerSpec.Collider, g.spawn)
	g.animator = anim.NewAnimator(anim.ClipsFromSpec(playerSpec.Animation))
	g.keyboard = input.NewKeyboard(src, layout, log)
	g.inputs = input.NewManager(g.keyboard, log)
	g.player = player.NewController(player.Deps{
		Body:        g.body,
		Ground:      g.world,
		GroundMask:  g.world.GroundMask(),
		Animator:    g.animator,
		Input:       g.inputs,
		InitialClip: playerSpec.Animation.Initial,
	}, player.TuningFromSpec(playerSpec.Movement), log)

	// Registration order is dispatch order: input resolves before the
	// controller reads it, and the world steps before the ground probe.
	g.root = manager.NewRoot(log)
	g.root.Register(g.keyboard, g.inputs, g.world, g.player, g.animator)

	g.camera = physics.NewCamera(baseWidth, baseHeight, g.world.PixelsPerUnit())
	g.camera.SnapTo(g.spawn)

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Warn("prefab watch disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		} else {
			g.watcher = w
			log.Info("watching prefabs", zap.String("dir", prefabs.Dir))
		}
	}

	log.Info("game ready",
		zap.String("level", levelSpec.Name),
		zap.String("player", playerSpec.Name),
		zap.Int("tps", opts.TPS),
	)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close prefab watcher", zap.Error(err))
		}
	}
	g.player.Destroy()
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.tick()
	return nil
}

// tick runs one unpaused frame of gameplay.
func (g *Game) tick() {
	g.advanceScript()
	g.reloadPrefabs()
	g.root.Tick(g.dt)

	if g.body.Position().Y < g.floorY-killDepth {
		g.respawn()
	}
	g.camera.Follow(g.player.CenterPos())
}

// setPaused stops keyboard sampling while the pause menu is up.
func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if paused {
		g.pauseUI = NewPauseUI(g)
	}
	g.suspendInput(paused)
	g.log.Info("pause", zap.Bool("paused", paused))
}

// suspendInput detaches the keyboard and releases held commands at once, so
// a glide held at pause time does not outlive the pause.
func (g *Game) suspendInput(suspend bool) {
	g.inputs.SetListeningKeyboard(!suspend)
	if suspend {
		g.inputs.Settle()
	}
}

func (g *Game) respawn() {
	g.body.SetPosition(g.spawn)
	g.body.SetVelocity(cp.Vector{})
	g.camera.SnapTo(g.spawn)
	g.log.Info("player respawned", zap.Float64("x", g.spawn.X), zap.Float64("y", g.spawn.Y))
}

// advanceScript feeds the next scripted frame and hands control back to the
// keyboard when the script ends or fails.
func (g *Game) advanceScript() {
	if g.script == nil {
		return
	}
	if err := g.script.Advance(); err != nil {
		g.log.Error("input script failed", zap.Int("frame", g.script.Frame()), zap.Error(err))
		g.endScript()
		return
	}
	if g.script.Done() {
		g.log.Info("input script finished", zap.Int("frames", g.script.Frame()))
		g.endScript()
	}
}

func (g *Game) endScript() {
	g.script = nil
	g.keyboard.SetSource(input.EbitenKeys{})
}

func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			g.log.Warn("prefab watcher", zap.Error(err))
		}
	default:
	}

	for _, name := range g.watcher.Poll() {
		if name != prefabs.PlayerFile {
			g.log.Debug("prefab change ignored", zap.String("file", name))
			continue
		}
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			g.log.Warn("reload player spec, keeping previous tuning", zap.Error(err))
			continue
		}
		g.player.SetTuning(player.TuningFromSpec(spec.Movement))
		g.playerColor = spec.Color.ColorOr(g.playerColor)
		g.log.Info("player spec reloaded", zap.String("file", name))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	for _, r := range g.platforms {
		x, y := g.camera.WorldToScreen(cp.Vector{X: r.X, Y: r.Y + r.H})
		ppu := g.camera.PixelsPerUnit()
		vector.FillRect(screen, float32(x), float32(y), float32(r.W*ppu), float32(r.H*ppu), colornames.Slategray, false)
	}
	physics.FillBody(screen, g.camera, g.body, g.playerColor)
	g.drawFacing(screen)

	if g.opts.Debug {
		g.world.DebugDraw(screen, g.camera)
		a, b := g.player.Probe()
		physics.DrawProbe(screen, g.camera, a, b, g.player.Grounded())
	}

	ebitenutil.DebugPrint(screen, g.hud())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// drawFacing marks the side the player faces.
func (g *Game) drawFacing(screen *ebiten.Image) {
	c := g.player.CenterPos()
	size := g.body.Size()
	dir := 1.0
	if !g.player.FacingRight() {
		dir = -1
	}
	x0, y0 := g.camera.WorldToScreen(cp.Vector{X: c.X, Y: c.Y + size.Y/4})
	x1, y1 := g.camera.WorldToScreen(cp.Vector{X: c.X + dir*size.X*0.75, Y: c.Y + size.Y/4})
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, colornames.White, true)
}

func (g *Game) hud() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f    TPS: %.2f\n", g.frames, ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "cue: %s  speed: %6.2f  grounded: %v  jumping: %v  gliding: %v  axis: %d  keyboard: %v\n",
		g.player.Cue(), g.player.Speed(), g.player.Grounded(), g.player.Jumping(), g.player.Gliding(), g.inputs.Axis(),
		g.inputs.IsListeningKeyboard())
	for _, cmd := range input.Commands() {
		if cmd == input.None {
			continue
		}
		s := g.inputs.State(cmd)
		fmt.Fprintf(&b, "%s: %s (%.2fs)  ", cmd, s.State, s.HoldTime)
	}
	if g.script != nil {
		fmt.Fprintf(&b, "\nscript frame %d", g.script.Frame())
	}
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func lowestPlatform(rects []prefabs.RectSpec) float64 {
	if len(rects) == 0 {
		return 0
	}
	low := rects[0].Y
	for _, r := range rects[1:] {
		if r.Y < low {
			low = r.Y
		}
	}
	return low
}
