package scene

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

var fallbackColor = color.RGBA{R: 200, G: 200, B: 255, A: 255}

// ResolveColor maps an SVG colour name or a #rrggbb string to RGBA. Unknown
// names resolve to a pale blue and ok is false.
func ResolveColor(name string) (c color.RGBA, ok bool) {
	if c, found := colornames.Map[strings.ToLower(name)]; found {
		return c, true
	}
	if len(name) == 7 && name[0] == '#' {
		var r, g, b uint8
		if n, err := fmt.Sscanf(name, "#%02x%02x%02x", &r, &g, &b); err == nil && n == 3 {
			return color.RGBA{R: r, G: g, B: b, A: 255}, true
		}
	}
	return fallbackColor, false
}
