// Package config loads the platform description from a JSON file and builds
// the geometry from it. Angles in the file are degrees; everything internal
// is radians.
package config

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/Linc-hub/StewartSim/geometry"
)

// Config selects a layout and carries its parameters. Exactly one of
// Circular/Hexagonal must be present, matching Layout.
type Config struct {
	Layout string `json:"layout"`

	RodLength     float64 `json:"rodLength"`
	HornLength    float64 `json:"hornLength"`
	HornDirection int     `json:"hornDirection"`

	// Servo limits in degrees.
	ServoRange [2]float64 `json:"servoRange"`

	AbsoluteHeight bool    `json:"absoluteHeight"`
	NeutralHeight  float64 `json:"neutralHeight"`

	Circular  *CircularConfig  `json:"circular,omitempty"`
	Hexagonal *HexagonalConfig `json:"hexagonal,omitempty"`
}

// CircularConfig mirrors geometry.CircularParams, with offsets in degrees.
type CircularConfig struct {
	BaseRadius     float64 `json:"baseRadius"`
	PlatformRadius float64 `json:"platformRadius"`
	ShaftOffset    float64 `json:"shaftOffset"`
	AnchorOffset   float64 `json:"anchorOffset"`
}

// HexagonalConfig mirrors geometry.HexagonalParams.
type HexagonalConfig struct {
	BaseRadius          float64 `json:"baseRadius"`
	BaseRadiusOuter     float64 `json:"baseRadiusOuter"`
	PlatformRadius      float64 `json:"platformRadius"`
	PlatformRadiusOuter float64 `json:"platformRadiusOuter"`
	ShaftDistance       float64 `json:"shaftDistance"`
	AnchorDistance      float64 `json:"anchorDistance"`
	PlatformTurn        int     `json:"platformTurn"`
}

// Default returns the circular platform the simulator ships with.
func Default() *Config {
	return &Config{
		Layout:     "circular",
		RodLength:  130,
		HornLength: 50,
		ServoRange: [2]float64{-90, 90},
		Circular: &CircularConfig{
			BaseRadius:     80,
			PlatformRadius: 50,
			ShaftOffset:    20,
			AnchorOffset:   20,
		},
	}
}

// Load reads a config file. Missing file is an error; validation happens in
// Build.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	c := &Config{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	return c, nil
}

// Build validates the record and constructs the geometry.
func (c *Config) Build() (*geometry.Geometry, error) {
	p := geometry.Params{
		RodLength:      c.RodLength,
		HornLength:     c.HornLength,
		HornDirection:  c.HornDirection,
		ServoRangeMin:  rad(c.ServoRange[0]),
		ServoRangeMax:  rad(c.ServoRange[1]),
		AbsoluteHeight: c.AbsoluteHeight,
		NeutralHeight:  c.NeutralHeight,
	}

	switch c.Layout {
	case "circular":
		if c.Circular == nil {
			return nil, errors.New("layout circular: missing circular parameters")
		}
		return geometry.Circular(p, geometry.CircularParams{
			BaseRadius:     c.Circular.BaseRadius,
			PlatformRadius: c.Circular.PlatformRadius,
			ShaftOffset:    rad(c.Circular.ShaftOffset),
			AnchorOffset:   rad(c.Circular.AnchorOffset),
		})

	case "hexagonal":
		if c.Hexagonal == nil {
			return nil, errors.New("layout hexagonal: missing hexagonal parameters")
		}
		return geometry.Hexagonal(p, geometry.HexagonalParams{
			BaseRadius:          c.Hexagonal.BaseRadius,
			BaseRadiusOuter:     c.Hexagonal.BaseRadiusOuter,
			PlatformRadius:      c.Hexagonal.PlatformRadius,
			PlatformRadiusOuter: c.Hexagonal.PlatformRadiusOuter,
			ShaftDistance:       c.Hexagonal.ShaftDistance,
			AnchorDistance:      c.Hexagonal.AnchorDistance,
			PlatformTurn:        c.Hexagonal.PlatformTurn,
		})

	default:
		return nil, errors.Errorf("unknown layout %q", c.Layout)
	}
}

func rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}
