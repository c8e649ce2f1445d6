package field

import (
	"fmt"
	"image/color"
	"strings"
	"time"
)

// Policy selects the per-particle update rule.
type Policy int

const (
	// PolicyStarfield moves particles toward the viewer along z and drifts
	// them laterally with the pointer (parallax).
	PolicyStarfield Policy = iota
	// PolicyBounce is the flat 2D rule: constant velocity, reflection at the
	// surface edges, pointer attraction and a speed clamp.
	PolicyBounce
)

func (p Policy) String() string {
	switch p {
	case PolicyStarfield:
		return "starfield"
	case PolicyBounce:
		return "bounce"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Preset names one of the three renderer generations.
type Preset string

const (
	PresetFlat      Preset = "flat"
	PresetGlow      Preset = "glow"
	PresetStarfield Preset = "starfield"
)

// ParsePreset accepts a preset name, case-insensitively. Empty is starfield.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetStarfield, nil
	case PresetFlat, PresetGlow, PresetStarfield:
		return p, nil
	}
	return "", fmt.Errorf("unknown preset %q", s)
}

// Population sizes.
const (
	CountDefault       = 260
	CountReducedMotion = 140
	CountFlat          = 80
	CountFlatReduced   = 40
)

// Tuning collects every constant the field reads. Values are folded once at
// startup from the preset and the accessibility switches.
type Tuning struct {
	Policy Policy
	Count  int

	FOV      float64
	DepthMax float64
	Speed    float64 // depth units per millisecond
	Drift    float64 // lateral pixels per millisecond at full pointer offset
	DtMax    float64 // milliseconds

	RadiusMin, RadiusMax float64
	MinRadius            float64
	HueBands             [][2]float64
	Saturation           float64
	Lightness            float64
	GlowBase, GlowGain   float64
	Pulse                bool

	Background color.NRGBA
	TrailAlpha float64
	CullMargin float64

	Links         bool
	LinkDistance  float64
	LinkDepth     float64 // 0 disables the depth cutoff
	LinkAlpha     float64
	LinkWidth     float64
	LinkHue       float64 // negative: mean of the endpoint hues
	GridThreshold int

	Grid        bool
	GridSpacing float64
	GridAlpha   float64
	GridDrift   bool
	Vignette    bool

	// PolicyBounce only.
	MaxSpeed      float64 // pixels per reference frame
	CaptureRadius float64
	AttractGain   float64

	ResizeDelay time.Duration
}

// Reference frame used to express the flat policy's per-frame velocities.
const frameMillis = 1000.0 / 60.0

// DefaultTuning is the starfield preset without accessibility switches.
func DefaultTuning() Tuning {
	return TuningFor(PresetStarfield, false, false)
}

// TuningFor folds a preset and the reduced-motion / coarse-pointer switches
// into a Tuning.
func TuningFor(preset Preset, reducedMotion, coarsePointer bool) Tuning {
	t := Tuning{
		Policy:        PolicyStarfield,
		Count:         CountDefault,
		FOV:           320,
		DepthMax:      1600,
		Speed:         0.35,
		Drift:         0.25,
		DtMax:         40,
		RadiusMin:     0.6,
		RadiusMax:     1.8,
		MinRadius:     0.3,
		HueBands:      [][2]float64{{175, 190}, {300, 310}},
		Saturation:    1,
		Lightness:     0.65,
		GlowBase:      0.35,
		GlowGain:      0.9,
		Background:    color.NRGBA{R: 5, G: 6, B: 15, A: 255},
		TrailAlpha:    0.35,
		CullMargin:    50,
		Links:         true,
		LinkDistance:  130,
		LinkDepth:     300,
		LinkAlpha:     0.25,
		LinkWidth:     1,
		LinkHue:       -1,
		GridThreshold: 400,
		GridSpacing:   64,
		GridAlpha:     0.06,
		Vignette:      true,
		ResizeDelay:   250 * time.Millisecond,
	}

	switch preset {
	case PresetGlow:
		t.LinkDistance = 150
		t.Grid = true
		t.GridDrift = true
		t.Pulse = true
	case PresetFlat:
		t.Policy = PolicyBounce
		t.Count = CountFlat
		t.RadiusMin, t.RadiusMax = 1, 3
		t.HueBands = [][2]float64{{180, 180}, {300, 300}}
		t.Lightness = 0.5
		t.GlowBase, t.GlowGain = 1, 0
		t.TrailAlpha = 1
		t.LinkDistance = 120
		t.LinkDepth = 0
		t.LinkAlpha = 0.2
		t.LinkHue = 180
		t.Vignette = false
		t.MaxSpeed = 2
		t.CaptureRadius = 100
		t.AttractGain = 0.01
	}

	if reducedMotion {
		t.Speed = 0.12
		t.Drift = 0
		t.TrailAlpha = 1
		t.GridDrift = false
		t.Pulse = false
		t.Count = CountReducedMotion
		if preset == PresetFlat {
			t.Count = CountFlatReduced
			t.MaxSpeed = 0.5
		}
	}
	if coarsePointer {
		t.Drift = 0
		t.AttractGain = 0
	}
	return t
}

// Validate reports the first inconsistent constant.
func (t Tuning) Validate() error {
	switch {
	case t.Count < 0:
		return fmt.Errorf("count %d is negative", t.Count)
	case t.FOV <= 0:
		return fmt.Errorf("fov %v must be positive", t.FOV)
	case t.DepthMax <= 1:
		return fmt.Errorf("depth range %v must exceed 1", t.DepthMax)
	case t.DtMax <= 0:
		return fmt.Errorf("dt clamp %v must be positive", t.DtMax)
	case len(t.HueBands) == 0:
		return fmt.Errorf("no hue bands")
	case t.RadiusMax < t.RadiusMin:
		return fmt.Errorf("radius range [%v, %v] is inverted", t.RadiusMin, t.RadiusMax)
	case t.Links && t.LinkDistance <= 0:
		return fmt.Errorf("link distance %v must be positive", t.LinkDistance)
	case t.Policy == PolicyBounce && t.MaxSpeed <= 0:
		return fmt.Errorf("bounce policy needs a positive max speed")
	}
	return nil
}
