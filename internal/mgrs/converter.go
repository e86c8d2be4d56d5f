package mgrs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPrecision is the number of digits per axis at 1 m resolution.
const MaxPrecision = 5

const (
	bandLetters = "CDEFGHJKLMNPQRSTUVWX"
	rowLetters  = "ABCDEFGHJKLMNPQRSTUV"

	minLatitude  = -80.0
	maxLatitude  = 84.0
	squareSize   = 100000.0
	rowCycle     = 2000000.0
	evenRowShift = 5
)

// 100 km column letters repeat every three zones.
var columnSets = [3]string{"ABCDEFGH", "JKLMNPQR", "STUVWXYZ"}

// Lowest northing reached inside each latitude band, rounded down to 100 km.
var bandMinNorthing = map[byte]float64{
	'C': 1100000, 'D': 2000000, 'E': 2800000, 'F': 3700000, 'G': 4600000,
	'H': 5500000, 'J': 6400000, 'K': 7300000, 'L': 8200000, 'M': 9100000,
	'N': 0, 'P': 800000, 'Q': 1700000, 'R': 2600000, 'S': 3500000,
	'T': 4400000, 'U': 5300000, 'V': 6200000, 'W': 7000000, 'X': 7900000,
}

// UTMProjector converts between WGS84 longitude/latitude in degrees and UTM
// easting/northing in metres. Southern-hemisphere northings carry the
// 10 000 km false northing.
type UTMProjector interface {
	ToUTM(lon, lat float64, zone int, south bool) (easting, northing float64, err error)
	FromUTM(easting, northing float64, zone int, south bool) (lon, lat float64, err error)
}

// Converter encodes and decodes MGRS references on top of a UTM projection.
type Converter struct {
	utm UTMProjector
}

// NewConverter returns a Converter using utm for the projection step.
func NewConverter(utm UTMProjector) *Converter {
	return &Converter{utm: utm}
}

// Encode returns the MGRS reference of a WGS84 position with precision
// digits per axis (0 gives the 100 km square only).
func (c *Converter) Encode(lat, lon float64, precision int) (string, error) {
	if precision < 0 || precision > MaxPrecision {
		return "", fmt.Errorf("%w: %d", ErrPrecision, precision)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < minLatitude || lat > maxLatitude {
		return "", fmt.Errorf("%w: lat=%f", ErrOutsideGrid, lat)
	}
	if lon < -180 || lon > 180 {
		return "", fmt.Errorf("%w: lon=%f", ErrOutsideGrid, lon)
	}

	zone := ZoneNumber(lat, lon)
	band := BandLetter(lat)

	easting, northing, err := c.utm.ToUTM(lon, lat, zone, lat < 0)
	if err != nil {
		return "", err
	}

	col := int(math.Floor(easting/squareSize)) - 1
	set := columnSets[(zone-1)%3]
	if col < 0 || col >= len(set) {
		return "", fmt.Errorf("%w: easting %f outside zone %d", ErrOutsideGrid, easting, zone)
	}

	row := int(math.Floor(northing/squareSize)) % len(rowLetters)
	if zone%2 == 0 {
		row = (row + evenRowShift) % len(rowLetters)
	}

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(zone))
	sb.WriteByte(band)
	sb.WriteByte(set[col])
	sb.WriteByte(rowLetters[row])

	if precision > 0 {
		div := math.Pow10(MaxPrecision - precision)
		e := int(math.Floor(math.Mod(easting, squareSize) / div))
		n := int(math.Floor(math.Mod(northing, squareSize) / div))
		fmt.Fprintf(&sb, "%0*d%0*d", precision, e, precision, n)
	}

	return sb.String(), nil
}

// Decode returns the WGS84 latitude and longitude of the centre of the cell
// a reference names.
func (c *Converter) Decode(ref GridRef) (lat, lon float64, err error) {
	if err := Validate(ref); err != nil {
		return 0, 0, err
	}

	band := ref.Letters[0]
	set := columnSets[(ref.Zone-1)%3]

	easting := float64(strings.IndexByte(set, ref.Letters[1])+1) * squareSize

	row := strings.IndexByte(rowLetters, ref.Letters[2])
	if ref.Zone%2 == 0 {
		row = (row - evenRowShift + len(rowLetters)) % len(rowLetters)
	}
	northing := float64(row) * squareSize
	for northing < bandMinNorthing[band] {
		northing += rowCycle
	}

	cell := squareSize
	if ref.Precision > 0 {
		cell = math.Pow10(MaxPrecision - ref.Precision)
		e, _ := strconv.Atoi(ref.Easting)
		n, _ := strconv.Atoi(ref.Northing)
		easting += float64(e) * cell
		northing += float64(n) * cell
	}
	easting += cell / 2
	northing += cell / 2

	lon, lat, err = c.utm.FromUTM(easting, northing, ref.Zone, band < 'N')
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// Validate checks that a parsed reference names a real MGRS cell: zone
// 1..60, one latitude band letter followed by the two 100 km square letters,
// and at most MaxPrecision digits per axis.
func Validate(ref GridRef) error {
	malformed := &ParseError{Input: ref.String(), Err: ErrMalformedGridRef}

	if ref.Zone < 1 || ref.Zone > 60 {
		return malformed
	}
	if len(ref.Letters) != 3 {
		return malformed
	}
	if strings.IndexByte(bandLetters, ref.Letters[0]) < 0 {
		return malformed
	}
	if strings.IndexByte(columnSets[(ref.Zone-1)%3], ref.Letters[1]) < 0 {
		return malformed
	}
	if strings.IndexByte(rowLetters, ref.Letters[2]) < 0 {
		return malformed
	}
	if ref.Precision > MaxPrecision || len(ref.Easting) != ref.Precision || len(ref.Northing) != ref.Precision {
		return &ParseError{Input: ref.String(), Err: ErrPrecision}
	}
	return nil
}

// ZoneNumber returns the UTM zone of a position, including the Norway and
// Svalbard exceptions.
func ZoneNumber(lat, lon float64) int {
	if lon == 180 {
		return 60
	}

	zone := int(math.Floor((lon+180)/6)) + 1

	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}

	if lat >= 72 && lat < 84 {
		switch {
		case lon >= 0 && lon < 9:
			return 31
		case lon >= 9 && lon < 21:
			return 33
		case lon >= 21 && lon < 33:
			return 35
		case lon >= 33 && lon < 42:
			return 37
		}
	}

	return zone
}

// BandLetter returns the latitude band of lat. Band X spans 72°N to 84°N.
func BandLetter(lat float64) byte {
	idx := int(math.Floor((lat - minLatitude) / 8))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(bandLetters) {
		idx = len(bandLetters) - 1
	}
	return bandLetters[idx]
}
