package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/dragon/prefabs"
)

// Body is a dynamic, rotation-locked box.
type Body struct {
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64
}

func newBody(spec prefabs.ColliderSpec, pos cp.Vector) *Body {
	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetAngle(0)
	body.SetAngularVelocity(0)
	body.SetPosition(pos)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(spec.Friction)
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, LayerMask(BodyLayer), cp.ALL_CATEGORIES))

	return &Body{body: body, shape: shape, width: width, height: height}
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

func (b *Body) SetPosition(pos cp.Vector) {
	b.body.SetPosition(pos)
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocityVector(v)
}

// Size is the collider's width and height.
func (b *Body) Size() cp.Vector {
	return cp.Vector{X: b.width, Y: b.height}
}

// Feet is the bottom-center point of the collider.
func (b *Body) Feet() cp.Vector {
	p := b.body.Position()
	return cp.Vector{X: p.X, Y: p.Y - b.height/2}
}
