package driver

import "time"

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

// WithName sets the name used in logs and errors.
func WithName(name string) DriverOpt {
	return func(d *Driver) {
		d.name = name
	}
}
