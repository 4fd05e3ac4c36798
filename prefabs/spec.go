package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	PlayerFile   = "player.yaml"
	BindingsFile = "bindings.yaml"
	LevelFile    = "level.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PlayerSpec struct {
	Name      string        `yaml:"name"`
	Spawn     VectorSpec    `yaml:"spawn"`
	Collider  ColliderSpec  `yaml:"collider"`
	Movement  MovementSpec  `yaml:"movement"`
	Animation AnimationSpec `yaml:"animation"`
	Color     *YAMLColor    `yaml:"color"`
}

// MovementSpec holds the controller tuning. Units are world units and
// seconds; positive Y is up.
type MovementSpec struct {
	TopSpeed      float64 `yaml:"top_speed"`
	RunAccel      float64 `yaml:"run_accel"`
	GlideAccel    float64 `yaml:"glide_accel"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	GlideSpeed    float64 `yaml:"glide_speed"`
	GroundProbe   float64 `yaml:"ground_probe"`
	WalkRateScale float64 `yaml:"walk_rate_scale"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type AnimationSpec struct {
	Initial string     `yaml:"initial"`
	Clips   []ClipSpec `yaml:"clips"`
}

// ClipSpec describes one clip. PlayTimes 0 loops forever.
type ClipSpec struct {
	Name      string  `yaml:"name"`
	Duration  float64 `yaml:"duration"`
	FadeIn    float64 `yaml:"fade_in"`
	PlayTimes int     `yaml:"play_times"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BindingsSpec struct {
	Axis AxisSpec         `yaml:"axis"`
	Keys []KeyBindingSpec `yaml:"keys"`
}

type AxisSpec struct {
	Negative string `yaml:"negative"`
	Positive string `yaml:"positive"`
}

type KeyBindingSpec struct {
	Key     string `yaml:"key"`
	Command string `yaml:"command"`
}

func LoadBindingsSpec() (*BindingsSpec, error) {
	spec, err := LoadSpec[BindingsSpec](BindingsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type LevelSpec struct {
	Name          string     `yaml:"name"`
	Gravity       float64    `yaml:"gravity"`
	GroundLayer   int        `yaml:"ground_layer"`
	PixelsPerUnit float64    `yaml:"pixels_per_unit"`
	Platforms     []RectSpec `yaml:"platforms"`
	Background    *YAMLColor `yaml:"background"`
}

// RectSpec is an axis-aligned box given by its lower-left corner.
type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func LoadLevelSpec() (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](LevelFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// ColorOr returns the parsed color, or fallback when none was given.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
