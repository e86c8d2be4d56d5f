package mgrs

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrMalformedGridRef indicates a string that is not zone digits,
	// letters and a digit run.
	ErrMalformedGridRef = errors.New("malformed grid reference")

	// ErrOddDigitRun indicates a digit run that cannot be split into equal
	// easting and northing halves.
	ErrOddDigitRun = errors.New("grid reference digit run has odd length")

	// ErrReprojection is matched by every *ReprojectionError.
	ErrReprojection = errors.New("reprojection failed")

	// ErrEncode is matched by every *EncodeError.
	ErrEncode = errors.New("grid reference encoding failed")

	// ErrOutsideGrid indicates a latitude outside the UTM bands (80°S to 84°N).
	ErrOutsideGrid = errors.New("position outside the UTM grid")

	// ErrPrecision indicates a precision outside 0..5 digits.
	ErrPrecision = errors.New("grid reference precision out of range")

	// ErrUnsupported is returned by Codec.ToPoint when the encoder cannot decode.
	ErrUnsupported = errors.New("grid reference decoding not supported by encoder")
)

// ParseError carries the string that failed to parse.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse grid reference %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReprojectionError indicates the geodesy collaborator could not bring a
// point into the target reference system.
type ReprojectionError struct {
	Point orb.Point
	CRS   string
	Err   error
}

func (e *ReprojectionError) Error() string {
	return fmt.Sprintf("reproject (%g, %g) from %s: %v", e.Point.X(), e.Point.Y(), e.CRS, e.Err)
}

func (e *ReprojectionError) Unwrap() error {
	return e.Err
}

func (e *ReprojectionError) Is(target error) bool {
	return target == ErrReprojection
}

// EncodeError indicates the grid encoder rejected a geographic position.
type EncodeError struct {
	Lat, Lon  float64
	Precision int
	Err       error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode lat=%f lon=%f at precision %d: %v", e.Lat, e.Lon, e.Precision, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
