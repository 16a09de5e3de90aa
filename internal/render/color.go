package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"reelcap/internal/services"
)

// ParseColor accepts SVG colour names and #rgb or #rrggbb hex values.
func ParseColor(value string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return color.NRGBA{}, services.Wrap(services.ErrConfiguration, "render", "parse color", "colour is empty", nil)
	}
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(name, "#") {
		hex := name[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			v, err := strconv.ParseUint(hex, 16, 32)
			if err == nil {
				return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
			}
		}
	}
	return color.NRGBA{}, services.Wrap(services.ErrConfiguration, "render", "parse color", fmt.Sprintf("unknown colour %q", value), nil)
}
