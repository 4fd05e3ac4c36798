package player

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/dragon/anim"
	"github.com/milk9111/dragon/common"
	"github.com/milk9111/dragon/input"
	"github.com/milk9111/dragon/manager"
)

// Clip names the controller cues.
const (
	ClipIdle  = "idle"
	ClipWalk  = "walk"
	ClipJump1 = "jump_1"
	ClipJump2 = "jump_2"
	ClipJump3 = "jump_3"
	ClipJump4 = "jump_4"
)

const walkFadeIn = 0.016

// Body is the controlled rigid body.
type Body interface {
	Position() cp.Vector
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	Size() cp.Vector
	Feet() cp.Vector
}

// GroundQuery answers axis-aligned overlap queries against collision layers.
type GroundQuery interface {
	OverlapArea(a, b cp.Vector, layerMask uint) bool
}

type Animator interface {
	HasClip(name string) bool
	FadeIn(name string, fadeIn float64, playTimes int) (*anim.State, error)
	AddListener(fn func(anim.Event)) common.ListenerID
	RemoveListener(id common.ListenerID)
}

// Input is the command broadcast the controller listens to.
type Input interface {
	AddAxisListener(fn func(int)) common.ListenerID
	RemoveAxisListener(id common.ListenerID)
	AddCommandListener(fn func(input.CommandSnapshot)) common.ListenerID
	RemoveCommandListener(id common.ListenerID)
}

// Deps are the collaborators a Controller needs. All are required except
// InitialClip, which defaults to idle.
type Deps struct {
	Body        Body
	Ground      GroundQuery
	GroundMask  uint
	Animator    Animator
	Input       Input
	InitialClip string
}

// Controller drives a body from axis intent and commands, and picks the
// animation cue for the resulting motion.
type Controller struct {
	guard     manager.Guard
	log       *zap.Logger
	scheduler *manager.Scheduler
	tuning    Tuning

	body       Body
	ground     GroundQuery
	groundMask uint
	animator   Animator
	input      Input
	initial    string

	started    bool
	axisSub    common.ListenerID
	commandSub common.ListenerID
	animSub    common.ListenerID

	grounded    bool
	jumping     bool
	jumpBurst   bool
	gliding     bool
	facingRight bool
	moveDir     int
	speed       float64
	cue         *anim.State

	probeA cp.Vector
	probeB cp.Vector
}

func NewController(deps Deps, tuning Tuning, log *zap.Logger) *Controller {
	if deps.Body == nil || deps.Ground == nil || deps.Animator == nil || deps.Input == nil {
		panic("player: controller requires body, ground query, animator and input")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		log:         log.Named("player"),
		tuning:      tuning,
		body:        deps.Body,
		ground:      deps.Ground,
		groundMask:  deps.GroundMask,
		animator:    deps.Animator,
		input:       deps.Input,
		initial:     deps.InitialClip,
		facingRight: true,
	}
}

// Init opts into the fixed and update channels and starts the controller.
func (c *Controller) Init(root *manager.Root) {
	c.guard.Do(func() {
		c.scheduler = root.Scheduler()
		c.scheduler.SetFixedUpdating(c, true)
		c.scheduler.SetUpdating(c, true)
		c.Start()
	})
}

// Start subscribes to input and animation events and cues the initial clip.
// Calling it again is a no-op until Destroy.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	c.animSub = c.animator.AddListener(c.handleAnimation)
	c.axisSub = c.input.AddAxisListener(c.handleAxis)
	c.commandSub = c.input.AddCommandListener(c.handleCommand)
	c.play(c.initialClip(), -1, -1)
}

// initialClip falls back to idle when no initial clip is set or the
// animator lacks it.
func (c *Controller) initialClip() string {
	if c.initial == "" {
		return ClipIdle
	}
	if !c.animator.HasClip(c.initial) {
		c.log.Warn("initial clip missing, starting idle", zap.String("clip", c.initial))
		return ClipIdle
	}
	return c.initial
}

// Destroy drops every subscription and leaves the tick channels.
func (c *Controller) Destroy() {
	if !c.started {
		return
	}
	c.started = false
	c.input.RemoveAxisListener(c.axisSub)
	c.input.RemoveCommandListener(c.commandSub)
	c.animator.RemoveListener(c.animSub)
	if c.scheduler != nil {
		c.scheduler.SetFixedUpdating(c, false)
		c.scheduler.SetUpdating(c, false)
	}
}

// SetTuning swaps the movement constants; current speed is clamped to the
// new top speed.
func (c *Controller) SetTuning(t Tuning) {
	c.tuning = t
	c.speed = common.Clamp(c.speed, -t.TopSpeed, t.TopSpeed)
	c.log.Info("tuning updated",
		zap.Float64("top_speed", t.TopSpeed),
		zap.Float64("jump_speed", t.JumpSpeed),
	)
}

func (c *Controller) Tuning() Tuning { return c.tuning }

// FixedUpdate recomputes ground contact from a thin box around the feet.
func (c *Controller) FixedUpdate(dt float64) {
	feet := c.body.Feet()
	half := c.body.Size().X / 2
	margin := c.tuning.GroundProbe

	c.probeA = cp.Vector{X: feet.X - half, Y: feet.Y + margin}
	c.probeB = cp.Vector{X: feet.X + half, Y: feet.Y - margin}

	grounded := c.ground.OverlapArea(c.probeA, c.probeB, c.groundMask)
	if grounded != c.grounded {
		c.log.Debug("ground contact", zap.Bool("grounded", grounded))
	}
	c.grounded = grounded
}

func (c *Controller) Update(dt float64) {
	c.updatePosition(dt)
	c.updateFacing()
	c.updateAnimation()
}

func (c *Controller) acceleration() float64 {
	if c.grounded {
		return c.tuning.RunAccel
	}
	return c.tuning.GlideAccel
}

func (c *Controller) updatePosition(dt float64) {
	acc := c.acceleration()
	vel := c.body.Velocity()

	if c.moveDir == 0 {
		if c.speed != 0 {
			if vel.X == 0 {
				c.speed = 0
			} else {
				step := dt * acc * 2
				if math.Abs(c.speed) <= step {
					c.speed = 0
				} else {
					c.speed -= float64(common.Sign(c.speed)) * step
				}
			}
		}
	} else {
		dir := float64(c.moveDir)
		mult := 1.0
		if dir*c.speed < 0 {
			mult = 2
		}
		c.speed += dt * dir * acc * mult
		c.speed = common.Clamp(c.speed, -c.tuning.TopSpeed, c.tuning.TopSpeed)
	}

	vy := vel.Y
	if c.jumpBurst {
		vy = c.tuning.JumpSpeed
		c.jumpBurst = false
	}
	if c.gliding && vy < c.tuning.GlideSpeed {
		vy = c.tuning.GlideSpeed
	}
	c.body.SetVelocity(cp.Vector{X: c.speed, Y: vy})
}

func (c *Controller) updateFacing() {
	if (c.moveDir > 0 && !c.facingRight) || (c.moveDir < 0 && c.facingRight) {
		c.facingRight = c.moveDir > 0
	}
}

func (c *Controller) updateAnimation() {
	if !c.grounded {
		if !c.Rising() && c.Cue() != ClipJump3 {
			c.jumping = true
			c.play(ClipJump3, -1, -1)
		}
		return
	}

	cue := c.Cue()
	switch {
	case c.jumping:
		if cue == ClipJump4 {
			return
		}
		if cue == ClipJump3 {
			c.play(ClipJump4, -1, 1)
			return
		}
		if !c.Rising() && cue == ClipJump2 {
			c.play(ClipJump3, -1, -1)
		}
	case c.moveDir == 0 && cue != ClipIdle:
		c.play(ClipIdle, -1, -1)
	case c.moveDir != 0 && cue != ClipWalk:
		c.play(ClipWalk, walkFadeIn, -1)
	}

	if c.Cue() == ClipWalk {
		c.cue.TimeScale = common.Rescale(math.Abs(c.speed), 0, c.tuning.TopSpeed, 0, c.tuning.WalkRateScale)
	}
}

func (c *Controller) play(name string, fadeIn float64, playTimes int) {
	s, err := c.animator.FadeIn(name, fadeIn, playTimes)
	if err != nil {
		c.log.Warn("cue rejected", zap.String("clip", name), zap.Error(err))
		return
	}
	c.cue = s
	c.log.Debug("cue", zap.String("clip", name))
}

func (c *Controller) handleAxis(x int) {
	c.moveDir = x
}

func (c *Controller) handleCommand(s input.CommandSnapshot) {
	switch s.Command {
	case input.LiftUp:
		if c.grounded {
			c.gliding = false
			if s.State == input.Press {
				c.jumping = true
				c.play(ClipJump1, -1, -1)
			}
		} else {
			c.gliding = s.State != input.Release
		}
	}
}

func (c *Controller) handleAnimation(e anim.Event) {
	if e.Type != anim.EventFadeInComplete {
		return
	}
	switch e.Clip {
	case ClipJump1:
		if c.grounded {
			c.jumpBurst = true
			c.play(ClipJump2, -1, -1)
		}
	case ClipJump4:
		c.jumping = false
	}
}

func (c *Controller) Grounded() bool    { return c.grounded }
func (c *Controller) Rising() bool      { return c.body.Velocity().Y > 0 }
func (c *Controller) FacingRight() bool { return c.facingRight }
func (c *Controller) Speed() float64    { return c.speed }
func (c *Controller) Jumping() bool     { return c.jumping }
func (c *Controller) Gliding() bool     { return c.gliding }
func (c *Controller) MoveDir() int      { return c.moveDir }

// Cue is the name of the last requested clip.
func (c *Controller) Cue() string {
	if c.cue == nil {
		return ""
	}
	return c.cue.Name
}

func (c *Controller) CenterPos() cp.Vector {
	return c.body.Position()
}

// Probe returns the corners of the last ground query.
func (c *Controller) Probe() (cp.Vector, cp.Vector) {
	return c.probeA, c.probeB
}
