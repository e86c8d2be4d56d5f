package mgrs

import (
	"regexp"
	"strconv"
	"strings"
)

// Captures: 1=zone, 2=letters, 3=digit run
var gridRefRegex = regexp.MustCompile(`^([0-9]{1,2})([A-Z]+)([0-9]*)$`)

// GridRef is a grid reference split into its parts,
// e.g. 54SVG999574 is zone 54, letters SVG, easting 999, northing 574.
type GridRef struct {
	Zone      int    `json:"zone"`
	Letters   string `json:"letters"`
	Easting   string `json:"easting"`
	Northing  string `json:"northing"`
	Precision int    `json:"precision"`
}

// String reassembles the compact form.
func (g GridRef) String() string {
	return strconv.Itoa(g.Zone) + g.Letters + g.Easting + g.Northing
}

// Parse splits a grid reference string into zone, letters and the easting
// and northing halves of its digit run. Surrounding whitespace and spaces
// between groups are ignored; letters must be upper case.
func Parse(code string) (GridRef, error) {
	compact := strings.Join(strings.Fields(code), "")

	m := gridRefRegex.FindStringSubmatch(compact)
	if m == nil {
		return GridRef{}, &ParseError{Input: code, Err: ErrMalformedGridRef}
	}

	zone, err := strconv.Atoi(m[1])
	if err != nil {
		return GridRef{}, &ParseError{Input: code, Err: ErrMalformedGridRef}
	}

	digits := m[3]
	if len(digits)%2 != 0 {
		return GridRef{}, &ParseError{Input: code, Err: ErrOddDigitRun}
	}

	precision := len(digits) / 2
	return GridRef{
		Zone:      zone,
		Letters:   m[2],
		Easting:   digits[:precision],
		Northing:  digits[precision:],
		Precision: precision,
	}, nil
}
