package digitize

import (
	"errors"
	"fmt"
	"math"
)

// AxisKind selects how an axis maps pixel coordinates to data values.
type AxisKind int

const (
	Linear AxisKind = iota
	Logarithmic
)

func (k AxisKind) String() string {
	switch k {
	case Linear:
		return "LINEAR"
	case Logarithmic:
		return "LOGARITHMIC"
	default:
		return fmt.Sprintf("AxisKind(%d)", int(k))
	}
}

// ErrNonPositiveValue is returned when a logarithmic axis is asked to place a
// value that is zero or negative, or calibrated with such a bound.
var ErrNonPositiveValue = errors.New("digitize: logarithmic axis values must be positive")

// Axis maps between pixel coordinates on a plot image and calibrated data
// values, either linearly or logarithmically.
type Axis struct {
	kind     AxisKind
	minPixel float64
	maxPixel float64
	minValue float64
	maxValue float64
}

// NewAxis returns an axis of the given kind with the default calibration,
// mapping pixels [0, 1] to values [0, 1].
func NewAxis(kind AxisKind) *Axis {
	return &Axis{
		kind:     kind,
		minPixel: 0,
		maxPixel: 1,
		minValue: 0,
		maxValue: 1,
	}
}

// Kind returns the axis kind.
func (a *Axis) Kind() AxisKind { return a.kind }

// Calibration returns the current calibration bounds.
func (a *Axis) Calibration() (minPixel, maxPixel, minValue, maxValue float64) {
	return a.minPixel, a.maxPixel, a.minValue, a.maxValue
}

// SetCalibration sets the pixel-space and data-space bounds of the axis.
//
// For a logarithmic axis both value bounds must be strictly positive;
// otherwise [ErrNonPositiveValue] is returned and the axis is left unchanged.
func (a *Axis) SetCalibration(minPixel, maxPixel, minValue, maxValue float64) error {
	if a.kind == Logarithmic && (minValue <= 0 || maxValue <= 0) {
		return fmt.Errorf("calibrating to [%g, %g]: %w", minValue, maxValue, ErrNonPositiveValue)
	}
	a.minPixel = minPixel
	a.maxPixel = maxPixel
	a.minValue = minValue
	a.maxValue = maxValue
	return nil
}

// PixelToValue converts a pixel coordinate to the corresponding data value.
//
// A degenerate calibration with zero pixel range yields the minimum value.
func (a *Axis) PixelToValue(pixel float64) float64 {
	pixelRange := a.maxPixel - a.minPixel
	if pixelRange == 0 {
		return a.minValue
	}
	s := (pixel - a.minPixel) / pixelRange
	if a.kind == Linear {
		return a.minValue + s*(a.maxValue-a.minValue)
	}
	logMin := math.Log10(a.minValue)
	logMax := math.Log10(a.maxValue)
	return math.Pow(10, logMin+s*(logMax-logMin))
}

// ValueToPixel converts a data value to the corresponding pixel coordinate.
//
// On a logarithmic axis a value ≤ 0 has no pixel position and results in
// [ErrNonPositiveValue]. A degenerate calibration with zero value range yields
// the minimum pixel.
func (a *Axis) ValueToPixel(value float64) (float64, error) {
	if a.kind == Linear {
		valueRange := a.maxValue - a.minValue
		if valueRange == 0 {
			return a.minPixel, nil
		}
		s := (value - a.minValue) / valueRange
		return a.minPixel + s*(a.maxPixel-a.minPixel), nil
	}
	if value <= 0 {
		return 0, fmt.Errorf("placing value %g: %w", value, ErrNonPositiveValue)
	}
	logMin := math.Log10(a.minValue)
	logMax := math.Log10(a.maxValue)
	logRange := logMax - logMin
	if logRange == 0 {
		return a.minPixel, nil
	}
	s := (math.Log10(value) - logMin) / logRange
	return a.minPixel + s*(a.maxPixel-a.minPixel), nil
}
