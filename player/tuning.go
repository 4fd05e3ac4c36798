package player

import "github.com/milk9111/dragon/prefabs"

// Tuning holds the movement constants. Units are world units and seconds.
type Tuning struct {
	TopSpeed      float64
	RunAccel      float64
	GlideAccel    float64
	JumpSpeed     float64
	GlideSpeed    float64
	GroundProbe   float64
	WalkRateScale float64
}

func DefaultTuning() Tuning {
	return Tuning{
		TopSpeed:      16,
		RunAccel:      96,
		GlideAccel:    16,
		JumpSpeed:     20,
		GlideSpeed:    -1,
		GroundProbe:   0.1,
		WalkRateScale: 4,
	}
}

// TuningFromSpec fills zero fields of spec with the defaults.
func TuningFromSpec(spec prefabs.MovementSpec) Tuning {
	t := DefaultTuning()
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&t.TopSpeed, spec.TopSpeed)
	set(&t.RunAccel, spec.RunAccel)
	set(&t.GlideAccel, spec.GlideAccel)
	set(&t.JumpSpeed, spec.JumpSpeed)
	set(&t.GlideSpeed, spec.GlideSpeed)
	set(&t.GroundProbe, spec.GroundProbe)
	set(&t.WalkRateScale, spec.WalkRateScale)
	if t.TopSpeed < 0 {
		t.TopSpeed = -t.TopSpeed
	}
	return t
}
