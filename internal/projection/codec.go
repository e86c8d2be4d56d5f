package projection

import (
	"github.com/woozymasta/gridoverlay/internal/mgrs"
)

// NewCodec wires a Reprojector over registry and a UTM-backed MGRS
// converter into a grid reference codec.
func NewCodec(registry *Registry, opts ...mgrs.Option) (*mgrs.Codec, *Reprojector, error) {
	r, err := NewReprojector(registry)
	if err != nil {
		return nil, nil, err
	}

	utm, err := NewUTM()
	if err != nil {
		return nil, nil, err
	}

	return mgrs.NewCodec(r, mgrs.NewConverter(utm), opts...), r, nil
}
