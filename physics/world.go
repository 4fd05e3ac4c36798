package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/dragon/manager"
	"github.com/milk9111/dragon/prefabs"
)

const (
	collisionTypeGround cp.CollisionType = iota + 1
	collisionTypeBody
)

// BodyLayer is the category of dynamic bodies created by World.NewBody.
const BodyLayer = 0

// LayerMask returns the category bit for a layer index.
func LayerMask(layer int) uint {
	if layer < 0 || layer >= 64 {
		return 0
	}
	return 1 << uint(layer)
}

// World owns the Chipmunk space and the static ground of one level.
type World struct {
	guard manager.Guard
	log   *zap.Logger
	space *cp.Space

	groundLayer int
	ppu         float64
	ground      []*cp.Shape
	bodies      []*Body
}

func NewWorld(level *prefabs.LevelSpec, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if level == nil {
		level = &prefabs.LevelSpec{}
	}

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: level.Gravity})

	w := &World{
		log:         log.Named("physics"),
		space:       space,
		groundLayer: level.GroundLayer,
		ppu:         level.PixelsPerUnit,
	}
	if w.ppu <= 0 {
		w.ppu = 24
	}
	for _, r := range level.Platforms {
		w.AddGround(r)
	}
	return w
}

func (w *World) Init(root *manager.Root) {
	w.guard.Do(func() {
		root.Scheduler().SetFixedUpdating(w, true)
		w.log.Info("physics world ready",
			zap.Int("ground_shapes", len(w.ground)),
			zap.Int("ground_layer", w.groundLayer),
		)
	})
}

// FixedUpdate advances the simulation by one fixed step.
func (w *World) FixedUpdate(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

func (w *World) GroundMask() uint {
	return LayerMask(w.groundLayer)
}

// PixelsPerUnit is the debug-render scale of the level.
func (w *World) PixelsPerUnit() float64 {
	return w.ppu
}

// AddGround adds a static box whose lower-left corner is (r.X, r.Y).
func (w *World) AddGround(r prefabs.RectSpec) *cp.Shape {
	if r.W <= 0 || r.H <= 0 {
		w.log.Warn("skipping empty ground rect", zap.Float64("x", r.X), zap.Float64("y", r.Y))
		return nil
	}
	bb := cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeGround)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, LayerMask(w.groundLayer), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.ground = append(w.ground, shape)
	return shape
}

// OverlapArea reports whether any shape in layerMask overlaps the
// axis-aligned rectangle spanned by corners a and b.
func (w *World) OverlapArea(a, b cp.Vector, layerMask uint) bool {
	if layerMask == 0 {
		return false
	}
	bb := cp.BB{
		L: math.Min(a.X, b.X),
		B: math.Min(a.Y, b.Y),
		R: math.Max(a.X, b.X),
		T: math.Max(a.Y, b.Y),
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, layerMask)

	hit := false
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		hit = true
	}, nil)
	return hit
}

// NewBody adds a dynamic box body centered on pos. The body never rotates.
func (w *World) NewBody(spec prefabs.ColliderSpec, pos cp.Vector) *Body {
	body := newBody(spec, pos)
	w.space.AddBody(body.body)
	w.space.AddShape(body.shape)
	w.bodies = append(w.bodies, body)
	w.log.Debug("body added",
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Float64("w", body.width),
		zap.Float64("h", body.height),
	)
	return body
}
