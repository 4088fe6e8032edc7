package xpath

import (
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ParseAtomic performs the lexical parse of a literal for the given
// type, raising FORG0001 (general invalid value) on failure, or FOCA0002
// for an integer-subtype value outside its range. Casting
// (xs:TYPE(value)) layers on top of this: it first atomizes/stringifies
// its operand, then calls ParseAtomic.
func ParseAtomic(lexical string, typ AtomicType) (Atomic, error) {
	switch typ {
	case TypeString, TypeUntypedAtomic, TypeAnyURI:
		return Atomic{Type: typ, str: lexical}, nil
	case TypeBoolean:
		return parseBoolean(lexical)
	case TypeInteger, TypeNonNegativeInteger, TypePositiveInteger, TypeNonPositiveInteger,
		TypeNegativeInteger, TypeUnsignedLong, TypeUnsignedInt, TypeUnsignedShort, TypeUnsignedByte:
		return parseIntegerSubtype(lexical, typ)
	case TypeDecimal:
		return parseDecimal(lexical)
	case TypeFloat:
		return parseFloatLike(lexical, TypeFloat)
	case TypeDouble:
		return parseFloatLike(lexical, TypeDouble)
	case TypeQName:
		return parseQNameLexical(lexical)
	case TypeDate:
		return parseDateLike(lexical, TypeDate, "2006-01-02")
	case TypeDateTime, TypeDateTimeStamp:
		return parseDateLike(lexical, typ, "2006-01-02T15:04:05")
	case TypeTime:
		return parseDateLike(lexical, TypeTime, "15:04:05")
	case TypeGYear:
		return parseDateLike(lexical, TypeGYear, "2006")
	case TypeGYearMonth:
		return parseDateLike(lexical, TypeGYearMonth, "2006-01")
	case TypeDuration, TypeYearMonthDuration, TypeDayTimeDuration:
		return parseDurationLexical(lexical, typ)
	case TypeHexBinary:
		return parseHexBinary(lexical)
	case TypeBase64Binary:
		return Atomic{Type: TypeBase64Binary, bin: []byte(lexical)}, nil
	default:
		return Atomic{}, newError(FORG0001, "unsupported cast target type %q", typ)
	}
}

func parseBoolean(lexical string) (Atomic, error) {
	switch strings.TrimSpace(lexical) {
	case "true", "1":
		return NewBoolean(true), nil
	case "false", "0":
		return NewBoolean(false), nil
	}
	return Atomic{}, newError(FORG0001, "invalid xs:boolean lexical %q", lexical)
}

func parseIntegerSubtype(lexical string, typ AtomicType) (Atomic, error) {
	s := strings.TrimSpace(lexical)
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Atomic{}, newError(FORG0001, "invalid %s lexical %q", typ, lexical)
	}
	if check, ok := integerSubtypes[typ]; ok && !check(i) {
		return Atomic{}, newError(FOCA0002, "%s value %s out of range", typ, s)
	}
	a := NewInteger(i)
	a.Type = typ
	return a, nil
}

func parseDecimal(lexical string) (Atomic, error) {
	s := strings.TrimSpace(lexical)
	f, ok := new(big.Float).SetPrec(200).SetString(s)
	if !ok {
		return Atomic{}, newError(FORG0001, "invalid xs:decimal lexical %q", lexical)
	}
	return Atomic{Type: TypeDecimal, num: f}, nil
}

func parseFloatLike(lexical string, typ AtomicType) (Atomic, error) {
	s := strings.TrimSpace(lexical)
	switch s {
	case "NaN":
		return NewNaN(typ), nil
	case "INF", "+INF":
		f := new(big.Float).SetInf(false)
		return Atomic{Type: typ, num: f}, nil
	case "-INF":
		f := new(big.Float).SetInf(true)
		return Atomic{Type: typ, num: f}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Atomic{}, newError(FORG0001, "invalid %s lexical %q", typ, lexical)
	}
	return Atomic{Type: typ, num: big.NewFloat(v)}, nil
}

func parseQNameLexical(lexical string) (Atomic, error) {
	parts := strings.SplitN(lexical, ":", 2)
	if len(parts) == 2 {
		return NewQName(QName{Prefix: parts[0], Local: parts[1]}), nil
	}
	return NewQName(QName{Local: lexical}), nil
}

func parseDateLike(lexical string, typ AtomicType, layout string) (Atomic, error) {
	s := strings.TrimSpace(lexical)
	hasTZ := strings.HasSuffix(s, "Z") || hasExplicitOffset(s)
	body, tz := splitTimezone(s)
	t, err := time.Parse(layout, body)
	if err != nil {
		return Atomic{}, newError(FORG0001, "invalid %s lexical %q", typ, lexical)
	}
	if hasTZ {
		loc, offErr := parseZoneOffset(tz)
		if offErr == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		}
	}
	return Atomic{Type: typ, t: t, hasTZ: hasTZ}, nil
}

func hasExplicitOffset(s string) bool {
	// A leading '-' is a BCE year sign and the date's own '-' separators
	// are not timezones; only a trailing ±hh:mm counts as an offset.
	if len(s) < 6 {
		return false
	}
	tail := s[len(s)-6:]
	return (tail[0] == '+' || tail[0] == '-') && tail[3] == ':'
}

func splitTimezone(s string) (body, tz string) {
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1], "Z"
	}
	if len(s) > 6 {
		tail := s[len(s)-6:]
		if (tail[0] == '+' || tail[0] == '-') && tail[3] == ':' {
			return s[:len(s)-6], tail
		}
	}
	return s, ""
}

func parseZoneOffset(tz string) (*time.Location, error) {
	if tz == "" || tz == "Z" {
		return time.UTC, nil
	}
	sign := 1
	if tz[0] == '-' {
		sign = -1
	}
	h, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, err
	}
	m, err := strconv.Atoi(tz[4:6])
	if err != nil {
		return nil, err
	}
	return time.FixedZone(tz, sign*(h*3600+m*60)), nil
}

func parseDurationLexical(lexical string, typ AtomicType) (Atomic, error) {
	s := lexical
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return Atomic{}, newError(FORG0001, "invalid duration lexical %q", lexical)
	}
	s = s[1:]
	datePart, timePart := s, ""
	if idx := strings.Index(s, "T"); idx >= 0 {
		datePart, timePart = s[:idx], s[idx+1:]
	}
	var months int64
	var seconds float64
	months += int64(parseDurationComponent(datePart, 'Y')) * 12
	months += int64(parseDurationComponent(datePart, 'M'))
	seconds += parseDurationComponent(datePart, 'D') * 86400
	seconds += parseDurationComponent(timePart, 'H') * 3600
	seconds += parseDurationComponent(timePart, 'M') * 60
	seconds += parseDurationComponent(timePart, 'S')
	if neg {
		months, seconds = -months, -seconds
	}
	return NewDurationValue(Duration{Months: months, Seconds: seconds}, typ), nil
}

func parseDurationComponent(s string, unit byte) float64 {
	idx := strings.IndexByte(s, unit)
	if idx < 0 {
		return 0
	}
	start := idx - 1
	for start >= 0 && (isDigit(s[start]) || s[start] == '.') {
		start--
	}
	v, _ := strconv.ParseFloat(s[start+1:idx], 64)
	return v
}

func parseHexBinary(lexical string) (Atomic, error) {
	s := strings.TrimSpace(lexical)
	if len(s)%2 != 0 {
		return Atomic{}, newError(FORG0001, "invalid xs:hexBinary lexical %q", lexical)
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Atomic{}, newError(FORG0001, "invalid xs:hexBinary lexical %q", lexical)
		}
		out[i] = byte(v)
	}
	return Atomic{Type: TypeHexBinary, bin: out}, nil
}

// Castable reports whether lexical would successfully cast to typ,
// without raising an error (used by the `castable as` operator).
func Castable(lexical string, typ AtomicType) bool {
	_, err := ParseAtomic(lexical, typ)
	return err == nil
}

// Promote converts an untyped atomic or numeric value to the target
// numeric type per the untyped-atomic promotion rules of XPath 2.0 §B:
// untypedAtomic values are promoted to xs:double unless the comparison
// partner is a date/duration, handled separately by the caller.
func Promote(a Atomic, target AtomicType) (Atomic, error) {
	if a.Type == target {
		return a, nil
	}
	if a.Type == TypeUntypedAtomic {
		return ParseAtomic(a.str, target)
	}
	if a.IsNumeric() {
		switch target {
		case TypeDouble, TypeFloat:
			if a.IsNaN() {
				return NewNaN(target), nil
			}
			return Atomic{Type: target, num: a.num}, nil
		case TypeDecimal:
			return Atomic{Type: TypeDecimal, num: a.num}, nil
		}
	}
	return a, nil
}
