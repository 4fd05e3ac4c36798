package input

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ParseKey resolves a config key name using ebiten's key names, e.g. "A",
// "ArrowLeft", "F1" or "Numpad0". Matching ignores case.
func ParseKey(name string) (ebiten.Key, error) {
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return key, nil
}

// KeyName is the inverse of ParseKey.
func KeyName(key ebiten.Key) string {
	return key.String()
}
