package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeySource reports raw keyboard state for the current tick.
type KeySource interface {
	IsKeyPressed(key ebiten.Key) bool
	IsKeyJustPressed(key ebiten.Key) bool
}

// EbitenKeys reads the live keyboard through ebiten.
type EbitenKeys struct{}

func (EbitenKeys) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (EbitenKeys) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// sampleKey classifies one key: Press on the rising edge, Hold while down
// after that, Release otherwise.
func sampleKey(src KeySource, key ebiten.Key) State {
	switch {
	case src.IsKeyJustPressed(key):
		return Press
	case src.IsKeyPressed(key):
		return Hold
	default:
		return Release
	}
}
