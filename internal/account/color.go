package account

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed RGBA value.
type Color uint32

const (
	ColorNone  Color = 0x00000000
	ColorWhite Color = 0xFFFFFFFF
)

// RGBA builds a Color from its components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// Alpha returns the alpha component.
func (c Color) Alpha() uint8 {
	return uint8(c)
}

// Hex returns the RRGGBB part of the color, the form used for embedded text colors.
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c)>>8)
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "#")
	switch len(s) {
	case 6:
		s += "FF"
	case 8:
	default:
		return fmt.Errorf("invalid color %q", text)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", text, err)
	}
	*c = Color(v)
	return nil
}
