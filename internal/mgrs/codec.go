// Package mgrs converts map points to and from military grid reference
// strings. Reprojection and the grid algorithm are injected, so the codec
// itself holds no geodesy state and is safe for concurrent use.
package mgrs

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// TargetCRS is the geographic reference system grid references are computed in.
const TargetCRS = "EPSG:4326"

// DefaultPrecision is 1 m resolution.
const DefaultPrecision = MaxPrecision

var errEmptyEncoding = errors.New("encoder returned an empty reference")

// Reprojector converts a point from the named reference system into
// longitude/latitude degrees in TargetCRS.
type Reprojector interface {
	ToGeographic(p orb.Point, crs string) (orb.Point, error)
}

// GridEncoder turns a WGS84 position into a grid reference string.
type GridEncoder interface {
	Encode(lat, lon float64, precision int) (string, error)
}

// GridDecoder is implemented by encoders that can also invert a reference.
type GridDecoder interface {
	Decode(ref GridRef) (lat, lon float64, err error)
}

// Codec encodes map points as grid references and parses them back.
type Codec struct {
	reprojector Reprojector
	encoder     GridEncoder
	targetCRS   string
	precision   int
}

// Option configures a Codec.
type Option func(*Codec)

// WithPrecision sets the precision used by Encode.
func WithPrecision(precision int) Option {
	return func(c *Codec) {
		c.precision = precision
	}
}

// NewCodec builds a codec around the host's reprojection and grid encoding
// primitives.
func NewCodec(r Reprojector, e GridEncoder, opts ...Option) *Codec {
	c := &Codec{
		reprojector: r,
		encoder:     e,
		targetCRS:   TargetCRS,
		precision:   DefaultPrecision,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TargetCRS returns the reference system points are reprojected into.
func (c *Codec) TargetCRS() string {
	return c.targetCRS
}

// Precision returns the default encoding precision.
func (c *Codec) Precision() int {
	return c.precision
}

// Encode reprojects p from sourceCRS and returns its grid reference at the
// codec's default precision.
func (c *Codec) Encode(p orb.Point, sourceCRS string) (string, error) {
	return c.EncodeWithPrecision(p, sourceCRS, c.precision)
}

// EncodeWithPrecision is Encode with an explicit number of digits per axis.
func (c *Codec) EncodeWithPrecision(p orb.Point, sourceCRS string, precision int) (string, error) {
	ll, err := c.reprojector.ToGeographic(p, sourceCRS)
	if err != nil {
		return "", &ReprojectionError{Point: p, CRS: sourceCRS, Err: err}
	}

	code, err := c.encoder.Encode(ll.Lat(), ll.Lon(), precision)
	if err != nil {
		return "", &EncodeError{Lat: ll.Lat(), Lon: ll.Lon(), Precision: precision, Err: err}
	}
	if code == "" {
		return "", &EncodeError{Lat: ll.Lat(), Lon: ll.Lon(), Precision: precision, Err: errEmptyEncoding}
	}

	return code, nil
}

// Decode parses code and checks it names an MGRS cell.
func (c *Codec) Decode(code string) (GridRef, error) {
	ref, err := Parse(code)
	if err != nil {
		return GridRef{}, err
	}
	if err := Validate(ref); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Input = code
		}
		return GridRef{}, err
	}
	return ref, nil
}

// ToPoint returns the longitude/latitude of the centre of the cell code names.
func (c *Codec) ToPoint(code string) (orb.Point, error) {
	ref, err := c.Decode(code)
	if err != nil {
		return orb.Point{}, err
	}

	dec, ok := c.encoder.(GridDecoder)
	if !ok {
		return orb.Point{}, ErrUnsupported
	}

	lat, lon, err := dec.Decode(ref)
	if err != nil {
		return orb.Point{}, fmt.Errorf("decode %s: %w", code, err)
	}
	return orb.Point{lon, lat}, nil
}
