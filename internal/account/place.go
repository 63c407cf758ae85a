package account

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
)

// Vector3 is a position in world space.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Place is a spawn placement: a position and the facing angle in degrees.
type Place struct {
	Position Vector3 `json:"position"`
	Angle    float32 `json:"angle"`
}

// Origin is the placement given to players that are not logged in.
var Origin = Place{}

func (p *Place) Validate() error {
	el := errors.NewErrorList()

	axes := []struct {
		name string
		val  float32
	}{{"x", p.Position.X}, {"y", p.Position.Y}, {"z", p.Position.Z}}
	for _, a := range axes {
		if !finite(a.val) {
			el.Add(fmt.Errorf("position %s must be a finite number", a.name))
		}
	}

	if !finite(p.Angle) {
		el.Add(fmt.Errorf("angle must be a finite number"))
	} else if p.Angle < 0 || p.Angle >= 360 {
		el.Add(fmt.Errorf("angle must be in [0, 360)"))
	}

	return el.Err()
}

func (p Place) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) @ %.1f", p.Position.X, p.Position.Y, p.Position.Z, p.Angle)
}

func finite(f float32) bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
