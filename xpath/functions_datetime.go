package xpath

import (
	"fmt"
	"strings"
	"time"
)

// init populates the date/time component-extractor family
// (year-from-dateTime, month-from-date, seconds-from-time, the duration
// component extractors, and timezone accessors). Every extractor shares
// the same "atomize, dispatch on Type, read off time.Time" shape, so
// they are generated here rather than duplicated per name.
func init() {
	registerDateTimeExtractor("year-from-dateTime", TypeDateTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Year())) })
	registerDateTimeExtractor("month-from-dateTime", TypeDateTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Month())) })
	registerDateTimeExtractor("day-from-dateTime", TypeDateTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Day())) })
	registerDateTimeExtractor("hours-from-dateTime", TypeDateTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Hour())) })
	registerDateTimeExtractor("minutes-from-dateTime", TypeDateTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Minute())) })
	registerDateTimeExtractor("seconds-from-dateTime", TypeDateTime, func(a Atomic) Atomic {
		return NewDecimal(float64(a.Time().Second()) + float64(a.Time().Nanosecond())/1e9)
	})

	registerDateTimeExtractor("year-from-date", TypeDate, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Year())) })
	registerDateTimeExtractor("month-from-date", TypeDate, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Month())) })
	registerDateTimeExtractor("day-from-date", TypeDate, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Day())) })

	registerDateTimeExtractor("hours-from-time", TypeTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Hour())) })
	registerDateTimeExtractor("minutes-from-time", TypeTime, func(a Atomic) Atomic { return NewIntegerFromInt64(int64(a.Time().Minute())) })
	registerDateTimeExtractor("seconds-from-time", TypeTime, func(a Atomic) Atomic {
		return NewDecimal(float64(a.Time().Second()) + float64(a.Time().Nanosecond())/1e9)
	})

	for _, typ := range []AtomicType{TypeDateTime, TypeDate, TypeTime} {
		registerTimezoneExtractor(typ)
	}

	registerDurationExtractor("years-from-duration", func(d Duration) Atomic { return NewIntegerFromInt64(d.Months / 12) })
	registerDurationExtractor("months-from-duration", func(d Duration) Atomic { return NewIntegerFromInt64(d.Months % 12) })
	registerDurationExtractor("days-from-duration", func(d Duration) Atomic { return NewIntegerFromInt64(int64(d.Seconds) / 86400) })
	registerDurationExtractor("hours-from-duration", func(d Duration) Atomic { return NewIntegerFromInt64((int64(d.Seconds) % 86400) / 3600) })
	registerDurationExtractor("minutes-from-duration", func(d Duration) Atomic { return NewIntegerFromInt64((int64(d.Seconds) % 3600) / 60) })
	registerDurationExtractor("seconds-from-duration", func(d Duration) Atomic { return NewDecimal(mod(d.Seconds, 60)) })

	RegisterFunction(fnName("implicit-timezone"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDayTimeDuration}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewDurationValue(ev.DC.ImplicitTimezone(), TypeDayTimeDuration)), nil
		})

	registerAdjustToTimezone("adjust-dateTime-to-timezone", TypeDateTime)
	registerAdjustToTimezone("adjust-date-to-timezone", TypeDate)
	registerAdjustToTimezone("adjust-time-to-timezone", TypeTime)

	registerDateFormatter("format-dateTime", TypeDateTime)
	registerDateFormatter("format-date", TypeDate)
	registerDateFormatter("format-time", TypeTime)
}

// registerAdjustToTimezone installs the 1-arg (implicit timezone) and
// 2-arg (explicit xs:dayTimeDuration?, possibly the empty sequence to
// strip the timezone) overloads of adjust-*-to-timezone sharing one
// implementation parameterized only by the atomic type adjusted.
func registerAdjustToTimezone(local string, argType AtomicType) {
	argT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: argType}, Occurrence: OccurrenceOptional}
	tzT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDayTimeDuration}, Occurrence: OccurrenceOptional}
	impl := func(ev *Evaluator, args []Sequence) (Sequence, error) {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		a, err := AtomizeOne(args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			tz := ev.DC.ImplicitTimezone()
			return Singleton(adjustTimezone(a, &tz.Seconds)), nil
		}
		if len(args[1]) == 0 {
			return Singleton(adjustTimezone(a, nil)), nil
		}
		tzAtom, err := AtomizeOne(args[1])
		if err != nil {
			return nil, err
		}
		tz := tzAtom.DurationValue()
		if tz.Months != 0 || tz.Seconds < -14*3600 || tz.Seconds > 14*3600 {
			return nil, newError(FODT0003, "invalid timezone %v", tz)
		}
		return Singleton(adjustTimezone(a, &tz.Seconds)), nil
	}
	RegisterFunction(fnName(local), 1, []SequenceType{argT}, argT, impl)
	RegisterFunction(fnName(local), 2, []SequenceType{argT, tzT}, argT, impl)
}

// adjustTimezone implements the shared adjust-*-to-timezone algorithm: a
// nil offset strips the timezone (same local clock fields, no zone); a
// value on an untagged input attaches that zone without shifting the
// clock fields; a value on an already-tagged input re-expresses the same
// instant in the new zone.
func adjustTimezone(a Atomic, offsetSeconds *float64) Atomic {
	t := a.Time()
	if offsetSeconds == nil {
		nt := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		return retypeDateLike(a.Type, nt, false)
	}
	loc := time.FixedZone("", int(*offsetSeconds))
	if !a.HasTZ() {
		nt := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		return retypeDateLike(a.Type, nt, true)
	}
	return retypeDateLike(a.Type, t.In(loc), true)
}

func retypeDateLike(typ AtomicType, t time.Time, hasTZ bool) Atomic {
	switch typ {
	case TypeDate:
		return NewDate(t, hasTZ)
	case TypeTime:
		return NewTime(t, hasTZ)
	default:
		return NewDateTime(t, hasTZ)
	}
}

// registerDateFormatter installs the 2-arg (picture only) and 4-arg
// (picture, language, calendar, place — the latter two ignored, matching
// the documented "no locale beyond the small built-in table" scope
// reduction shared with format-integer) overloads of format-date/
// format-time/format-dateTime.
func registerDateFormatter(local string, argType AtomicType) {
	argT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: argType}, Occurrence: OccurrenceOptional}
	strT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}}
	strOptT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}
	retT := SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}
	impl := func(ev *Evaluator, args []Sequence) (Sequence, error) {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		a, err := AtomizeOne(args[0])
		if err != nil {
			return nil, err
		}
		picture, err := argString(args[1])
		if err != nil {
			return nil, err
		}
		lang := ""
		if len(args) == 4 && len(args[2]) != 0 {
			lang, err = argString(args[2])
			if err != nil {
				return nil, err
			}
		}
		return Singleton(NewString(formatDateTimePicture(a, picture, lang))), nil
	}
	RegisterFunction(fnName(local), 2, []SequenceType{argT, strT}, retT, impl)
	RegisterFunction(fnName(local), 4, []SequenceType{argT, strT, strOptT, strOptT}, retT, impl)
}

// formatDateTimePicture renders a per XSLT/XPath format-date "picture
// string" whose components are `[` `]`-delimited specifiers of the form
// componentLetter, optional presentation modifier, following the
// componentLetters Y/M/D/H/h/m/s/f/Z/z/F/P; anything outside brackets
// is copied verbatim, and a doubled bracket ("[[" / "]]") is an escaped
// literal bracket. This covers the commonly used subset — full width/
// ordinal-suffix sub-picture grammar (spec.md §4.4's documented scope
// reduction, the same shape as format-number's picture subset).
func formatDateTimePicture(a Atomic, picture, lang string) string {
	var b strings.Builder
	t := a.Time()
	runes := []rune(picture)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '[':
			if i+1 < len(runes) && runes[i+1] == '[' {
				b.WriteByte('[')
				i++
				continue
			}
			j := i + 1
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			b.WriteString(renderDateComponent(string(runes[i+1:j]), t, a, lang))
			i = j
		case ']':
			if i+1 < len(runes) && runes[i+1] == ']' {
				b.WriteByte(']')
				i++
				continue
			}
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// renderDateComponent formats one bracketed component specifier: the
// first letter selects the field, an optional comma-width suffix
// ("01", "1") or "N"/"n" name-presentation modifier selects how.
func renderDateComponent(spec string, t time.Time, a Atomic, lang string) string {
	if spec == "" {
		return ""
	}
	letter := spec[0]
	mod := spec[1:]
	switch letter {
	case 'Y':
		return padComponent(int64(t.Year()), mod, 4)
	case 'M':
		if strings.Contains(mod, "N") {
			return monthName(t.Month(), lang)
		}
		if strings.Contains(mod, "n") {
			return strings.ToLower(monthName(t.Month(), lang))
		}
		return padComponent(int64(t.Month()), mod, 2)
	case 'D':
		return padComponent(int64(t.Day()), mod, 2)
	case 'H':
		return padComponent(int64(t.Hour()), mod, 2)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return padComponent(int64(h), mod, 2)
	case 'm':
		return padComponent(int64(t.Minute()), mod, 2)
	case 's':
		return padComponent(int64(t.Second()), mod, 2)
	case 'f':
		return padComponent(int64(t.Nanosecond())/1000000, mod, 3)
	case 'P':
		if t.Hour() < 12 {
			return "am"
		}
		return "pm"
	case 'F':
		return weekdayName(t.Weekday(), lang)
	case 'Z', 'z':
		if !a.HasTZ() {
			return ""
		}
		_, off := t.Zone()
		sign := "+"
		if off < 0 {
			sign = "-"
			off = -off
		}
		prefix := ""
		if letter == 'z' {
			prefix = "GMT"
		}
		return fmt.Sprintf("%s%s%02d:%02d", prefix, sign, off/3600, (off%3600)/60)
	default:
		return ""
	}
}

func padComponent(v int64, mod string, defaultWidth int) string {
	width := defaultWidth
	if mod != "" {
		digits := strings.TrimLeft(mod, ",")
		n := 0
		for _, c := range digits {
			if c < '0' || c > '9' {
				break
			}
			n++
		}
		if n > 0 {
			if parsed, err := parsePositiveInt(digits[:n]); err == nil {
				width = parsed
			}
		}
	}
	return fmt.Sprintf("%0*d", width, v)
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, newError(FORG0001, "invalid width modifier %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func monthName(m time.Month, lang string) string {
	tbl, ok := langTables[lang]
	if !ok {
		tbl = langTables["en"]
	}
	return tbl.Months[m-1]
}

func weekdayName(d time.Weekday, lang string) string {
	tbl, ok := langTables[lang]
	if !ok {
		tbl = langTables["en"]
	}
	return tbl.Weekdays[d]
}

func mod(f, m float64) float64 {
	r := f
	for r >= m {
		r -= m
	}
	for r < 0 {
		r += m
	}
	return r
}

func registerDateTimeExtractor(local string, argType AtomicType, extract func(Atomic) Atomic) {
	ret := TypeInteger
	if strings.HasPrefix(local, "seconds-") {
		ret = TypeDecimal
	}
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: argType}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: ret}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(extract(a)), nil
		})
}

func registerTimezoneExtractor(argType AtomicType) {
	RegisterFunction(fnName("timezone-from-"+string(argType)[3:]), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: argType}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDayTimeDuration}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			if !a.HasTZ() {
				return Empty, nil
			}
			_, offset := a.Time().Zone()
			return Singleton(NewDurationValue(Duration{Seconds: float64(offset)}, TypeDayTimeDuration)), nil
		})
}

func registerDurationExtractor(local string, extract func(Duration) Atomic) {
	ret := TypeInteger
	if strings.HasPrefix(local, "seconds-") {
		ret = TypeDecimal
	}
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDuration}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: ret}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(extract(a.DurationValue())), nil
		})
}
