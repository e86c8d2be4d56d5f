package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidFormatSpecifier is matched by every *FormatError.
var ErrInvalidFormatSpecifier = errors.New("invalid format specifier")

// MaxWidth is the largest width a specifier accepts. Fraction codes hold six
// significant digits, wider fractions are padded with zeros.
const MaxWidth = 32

// FormatError reports an unknown specifier code, a width above MaxWidth when
// Width is set, or a trailing '%' when Code is zero.
type FormatError struct {
	Template string
	Pos      int // byte offset of the '%'
	Code     rune
	Width    string
}

func (e *FormatError) Error() string {
	if e.Width != "" {
		return fmt.Sprintf("invalid format specifier: width %s exceeds %d at offset %d in %q", e.Width, MaxWidth, e.Pos, e.Template)
	}
	if e.Code == 0 {
		return fmt.Sprintf("invalid format specifier: incomplete '%%' at offset %d in %q", e.Pos, e.Template)
	}
	return fmt.Sprintf("invalid format specifier '%c' at offset %d in %q", e.Code, e.Pos, e.Template)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormatSpecifier
}

// specifier is one parsed %[0][width]<code> token.
type specifier struct {
	code  rune
	pad   bool
	width int
}

type token struct {
	literal string
	spec    *specifier
}

type renderFunc func(a Angle, s specifier) string

// renderers maps each specifier code to its renderer.
var renderers = map[rune]renderFunc{
	'g': func(a Angle, _ specifier) string { return a.sign },
	'D': integerPart(func(a Angle) float64 { return a.degrees }, 3),
	'd': fractionPart(func(a Angle) float64 { return a.fracDegrees }),
	'M': integerPart(func(a Angle) float64 { return a.minutes }, 2),
	'm': fractionPart(func(a Angle) float64 { return a.fracMinutes }),
	'S': integerPart(func(a Angle) float64 { return a.seconds }, 2),
	's': fractionPart(func(a Angle) float64 { return a.fracSeconds }),
	'n': func(a Angle, _ specifier) string {
		if a.Negative() {
			return ""
		}
		return a.positiveLetter()
	},
	'e': func(a Angle, _ specifier) string {
		if a.Negative() {
			return a.negativeLetter()
		}
		return ""
	},
	'%': func(Angle, specifier) string { return "%" },
}

// integerPart renders a whole component. With the zero flag it is left padded
// to the requested width, or to conventional when no width follows the flag.
func integerPart(get func(Angle) float64, conventional int) renderFunc {
	return func(a Angle, s specifier) string {
		v := strconv.Itoa(int(get(a)))
		if !s.pad {
			return v
		}
		w := s.width
		if w == 0 {
			w = conventional
		}
		if len(v) >= w {
			return v
		}
		return strings.Repeat("0", w-len(v)) + v
	}
}

// fractionPart renders exactly width digits of a fractional component taken
// from its six-decimal representation, right padded with zeros.
func fractionPart(get func(Angle) float64) renderFunc {
	return func(a Angle, s specifier) string {
		if s.width <= 0 {
			return ""
		}
		digits := strconv.FormatFloat(get(a), 'f', 6, 64)
		if i := strings.IndexByte(digits, '.'); i >= 0 {
			digits = digits[i+1:]
		}
		if len(digits) < s.width {
			digits += strings.Repeat("0", s.width-len(digits))
		}
		return digits[:s.width]
	}
}

// AngleFormat is a parsed Angle template that can be rendered repeatedly.
type AngleFormat struct {
	template string
	tokens   []token
}

var defaultFormat = MustParseFormat(`%g%D°%02M'%02S.%2s"`)

// ParseFormat scans template into literal and specifier tokens. Every code
// is checked against the renderer table, so a parsed format never fails to
// render.
func ParseFormat(template string) (*AngleFormat, error) {
	f := &AngleFormat{template: template}

	var lit strings.Builder
	i := 0
	for i < len(template) {
		c := template[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}

		start := i
		i++

		spec := specifier{}
		digitsStart := i
		for i < len(template) && template[i] >= '0' && template[i] <= '9' {
			i++
		}
		if i >= len(template) {
			return nil, &FormatError{Template: template, Pos: start}
		}
		code, size := utf8.DecodeRuneInString(template[i:])

		if i > digitsStart {
			digits := template[digitsStart:i]
			spec.pad = digits[0] == '0'
			w, err := strconv.Atoi(digits)
			if err != nil || w > MaxWidth {
				return nil, &FormatError{Template: template, Pos: start, Code: code, Width: digits}
			}
			spec.width = w
		}

		if _, ok := renderers[code]; !ok {
			return nil, &FormatError{Template: template, Pos: start, Code: code}
		}
		spec.code = code
		i += size

		if lit.Len() > 0 {
			f.tokens = append(f.tokens, token{literal: lit.String()})
			lit.Reset()
		}
		f.tokens = append(f.tokens, token{spec: &spec})
	}

	if lit.Len() > 0 {
		f.tokens = append(f.tokens, token{literal: lit.String()})
	}

	return f, nil
}

// MustParseFormat is like ParseFormat but panics on an invalid template.
func MustParseFormat(template string) *AngleFormat {
	f, err := ParseFormat(template)
	if err != nil {
		panic(err)
	}
	return f
}

// Template returns the source text of the format.
func (f *AngleFormat) Template() string {
	return f.template
}

// Render writes a through the format.
func (f *AngleFormat) Render(a Angle) string {
	var sb strings.Builder
	for _, t := range f.tokens {
		if t.spec == nil {
			sb.WriteString(t.literal)
			continue
		}
		sb.WriteString(renderers[t.spec.code](a, *t.spec))
	}
	return sb.String()
}

// Format renders the angle through template. See ParseFormat for the
// accepted specifiers.
func (a Angle) Format(template string) (string, error) {
	f, err := ParseFormat(template)
	if err != nil {
		return "", err
	}
	return f.Render(a), nil
}
