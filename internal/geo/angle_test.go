package geo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAngleDecomposition(t *testing.T) {
	tests := []struct {
		deg     float64
		sign    string
		degrees int
		minutes int
		seconds int
	}{
		{10.5, "", 10, 30, 0},
		{-10.5, "-", 10, 30, 0},
		{45.2625, "", 45, 15, 45},
		{370, "", 10, 0, 0},
		{-725.25, "-", 5, 15, 0},
		{0, "", 0, 0, 0},
	}

	for _, tt := range tests {
		a := NewAngle(tt.deg)
		if a.Sign() != tt.sign {
			t.Errorf("NewAngle(%v).Sign() = %q, expected %q", tt.deg, a.Sign(), tt.sign)
		}
		if a.Degrees() != tt.degrees || a.Minutes() != tt.minutes || a.Seconds() != tt.seconds {
			t.Errorf("NewAngle(%v) = %d %d %d, expected %d %d %d",
				tt.deg, a.Degrees(), a.Minutes(), a.Seconds(), tt.degrees, tt.minutes, tt.seconds)
		}
	}
}

func TestAngleNormalization(t *testing.T) {
	for _, d := range []float64{0, 1.25, 10, 359.999, 360, 370, 725.5, -10, -370.75, -1e4 + 0.3} {
		a := NewAngle(d)

		mag := math.Mod(math.Abs(d), 360)
		rebuilt := float64(a.Degrees()) + a.FractionalDegrees()
		if math.Abs(rebuilt-mag) > 1e-9 {
			t.Errorf("NewAngle(%v): degrees+frac = %v, expected %v", d, rebuilt, mag)
		}

		want := mag
		if d < 0 {
			want = -mag
		}
		if math.Abs(a.Value()-want) > 1e-9 {
			t.Errorf("NewAngle(%v).Value() = %v, expected %v", d, a.Value(), want)
		}

		if a.FractionalDegrees() < 0 || a.FractionalMinutes() < 0 || a.FractionalSeconds() < 0 {
			t.Errorf("NewAngle(%v) has negative fractional parts", d)
		}
	}

	if NewAngle(370) != NewAngle(10) {
		t.Errorf("NewAngle(370) should decompose like NewAngle(10)")
	}

	neg := NewAngle(-10)
	if neg.Sign() != "-" || neg.Degrees() != 10 {
		t.Errorf("NewAngle(-10): sign %q degrees %d", neg.Sign(), neg.Degrees())
	}
}

func TestAngleFormat(t *testing.T) {
	tests := []struct {
		name     string
		angle    Angle
		template string
		expected string
	}{
		{"north", NewAngle(10.5), `%03D°%02M'%02S"%n`, `010°30'00"N`},
		{"south", NewAngle(-10.5), `%03D°%02M'%02S"%e`, `010°30'00"S`},
		{"hemisphere pair", NewAngle(-10.5), `%03D°%02M'%02S"%n%e`, `010°30'00"S`},
		{"no hemisphere for south on %n", NewAngle(-10.5), `%D%n`, `10`},
		{"no hemisphere for north on %e", NewAngle(10.5), `%D%e`, `10`},
		{"longitude letters", NewLongitude(-3.25), `%D°%02M'%n%e`, `3°15'W`},
		{"latitude letters", NewLatitude(51.5), `%n%e %D`, `N 51`},
		{"sign", NewAngle(-45.5), `%g%D.%2d`, `-45.50`},
		{"no sign", NewAngle(45.5), `%g%D.%2d`, `45.50`},
		{"natural width", NewAngle(5.25), `%D %M`, `5 15`},
		{"default pad width", NewAngle(5.25), `%0D %0M %0S`, `005 15 00`},
		{"wide pad", NewAngle(5), `%05D`, `00005`},
		{"pad narrower than value", NewAngle(123), `%02D`, `123`},
		{"fraction precision", NewAngle(12.345678), `%D.%4d`, `12.3456`},
		{"fraction padded", NewAngle(12.5), `%D.%8d`, `12.50000000`},
		{"widest", NewAngle(7), `%032D`, strings.Repeat("0", 31) + "7"},
		{"fraction zero width", NewAngle(12.5), `%D.%d`, `12.`},
		{"fractional minutes", NewAngle(0.5125), `%M.%3m`, `30.750`},
		{"fractional seconds", NewAngle(0.50125), `%S.%2s`, `4.50`},
		{"literal percent", NewAngle(1), `%D%%`, `1%`},
		{"plain text", NewAngle(1), `bearing`, `bearing`},
		{"empty", NewAngle(1), ``, ``},
		{"reduced", NewAngle(370.5), `%03D°%02M'`, `010°30'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.angle.Format(tt.template)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Format(%q) = %q, expected %q", tt.template, got, tt.expected)
			}
		})
	}
}

func TestAngleFormatDeterministic(t *testing.T) {
	a := NewAngle(45.5)
	first, err := a.Format("%03D %02M %02S")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "045 30 00" {
		t.Errorf("expected %q, got %q", "045 30 00", first)
	}
	for i := 0; i < 10; i++ {
		again, _ := a.Format("%03D %02M %02S")
		if again != first {
			t.Fatalf("format changed between calls: %q vs %q", first, again)
		}
	}
}

func TestAngleFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		code     rune
		pos      int
	}{
		{"unknown code", "%q", 'q', 0},
		{"unknown code after text", "deg %D %x", 'x', 7},
		{"non-ascii code", "%°", '°', 0},
		{"trailing percent", "%D%", 0, 2},
		{"trailing width", "%D %02", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAngle(1).Format(tt.template)
			if !errors.Is(err, ErrInvalidFormatSpecifier) {
				t.Fatalf("expected ErrInvalidFormatSpecifier, got %v", err)
			}

			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %T", err)
			}
			if fe.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, fe.Code)
			}
			if fe.Pos != tt.pos {
				t.Errorf("expected offset %d, got %d", tt.pos, fe.Pos)
			}
		})
	}
}

func TestAngleFormatWidthLimit(t *testing.T) {
	tests := []struct {
		name     string
		template string
		code     rune
		pos      int
	}{
		{"above limit", "%033D", 'D', 0},
		{"huge pad", "x %0200000000D", 'D', 2},
		{"huge fraction", "%D.%300000000s", 's', 3},
		{"overflow", "%99999999999999999999D", 'D', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAngle(1).Format(tt.template)
			if got != "" {
				t.Errorf("expected no output, got %d bytes", len(got))
			}
			var fe *FormatError
			if !errors.As(err, &fe) || !errors.Is(err, ErrInvalidFormatSpecifier) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if fe.Code != tt.code || fe.Pos != tt.pos || fe.Width == "" {
				t.Errorf("unexpected error fields %+v", fe)
			}
			if !strings.Contains(fe.Error(), "width") || strings.Contains(fe.Error(), "incomplete") {
				t.Errorf("unexpected message %q", fe.Error())
			}
		})
	}
}

func TestAngleString(t *testing.T) {
	if got := NewAngle(-10.5).String(); got != `-10°30'00.00"` {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestParseFormatReuse(t *testing.T) {
	f, err := ParseFormat(`%02D°%02M'%n%e`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.Render(NewLatitude(-33.5)); got != `33°30'S` {
		t.Errorf("unexpected render: %q", got)
	}
	if got := f.Render(NewLongitude(151.25)); got != `151°15'E` {
		t.Errorf("unexpected render: %q", got)
	}
}
