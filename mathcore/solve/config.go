package solve

import (
	"fmt"
	"strings"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/poly"
)

type AngleUnit uint8

const (
	Degrees AngleUnit = iota
	Radians
)

func (u AngleUnit) String() string {
	if u == Radians {
		return "rad"
	}
	return "deg"
}

func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	}
	return Degrees, fmt.Errorf("unknown angle unit %q", s)
}

// Config tunes a Solver. Zero fields fall back to DefaultConfig values.
type Config struct {
	// DecimalPlaces is the number of fractional digits shown for approximations.
	DecimalPlaces int
	// MaxExpandIterations bounds bracket expansion passes.
	MaxExpandIterations int
	// AngleUnit is how bare trig arguments are read; π in the argument always means radians.
	AngleUnit AngleUnit
	// MaxPrecision is the number of decimal digits kept when a decimal coefficient is
	// converted to an exact fraction.
	MaxPrecision int
}

func DefaultConfig() Config {
	return Config{
		DecimalPlaces:       4,
		MaxExpandIterations: poly.DefaultMaxExpandIterations,
		AngleUnit:           Degrees,
		MaxPrecision:        exact.DefaultMaxPrecision,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.DecimalPlaces <= 0 {
		c.DecimalPlaces = def.DecimalPlaces
	}
	if c.MaxExpandIterations <= 0 {
		c.MaxExpandIterations = def.MaxExpandIterations
	}
	if c.MaxPrecision <= 0 {
		c.MaxPrecision = def.MaxPrecision
	}
	return c
}
