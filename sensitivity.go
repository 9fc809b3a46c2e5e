package shroud

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TagName is the struct tag that marks a field sensitive.
//
//	type Patient struct {
//	    Name  string  `anonymize:"mask,format=name"`
//	    SSN   string  `anonymize:"hash"`
//	    Age   int     `anonymize:"range,interval=5,rounding=floor"`
//	    Notes string  `anonymize:"redact,with=[REDACTED]"`
//	    Cache []byte  `anonymize:"-"`
//	}
const TagName = "anonymize"

// skipTag marks a field as not writable: it is neither read nor copied.
const skipTag = "-"

// Sensitivity describes how one field is anonymized.
// It is derived from a field's struct tag and never mutated afterwards.
type Sensitivity struct {
	Method   Method
	Interval float64    // range: interval to snap to; <= 0 derives one from the value
	Rounding Rounding   // range: defaults to RoundFloor
	Algo     HashAlgo   // hash: defaults to HashSHA256
	Format   MaskFormat // mask: defaults to MaskTail
	With     string     // redact: literal, defaults to "***"
}

// ParseSensitivity parses the value of an anonymize struct tag.
//
// The first comma-separated element is the method; the rest are key=value
// options. Because a redaction literal may itself contain commas, the with
// option consumes the remainder of the tag and must come last.
func ParseSensitivity(tag string) (Sensitivity, error) {
	parts := strings.Split(tag, ",")
	method := strings.TrimSpace(parts[0])
	if method == "" {
		return Sensitivity{}, fmt.Errorf("%w: empty method in %q", ErrInvalidTag, tag)
	}

	s := Sensitivity{Method: Method(method), Rounding: RoundFloor}

	for i := 1; i < len(parts); i++ {
		key, val, ok := strings.Cut(parts[i], "=")
		if !ok {
			return Sensitivity{}, fmt.Errorf("%w: option %q is not key=value", ErrInvalidTag, parts[i])
		}
		key = strings.TrimSpace(key)

		switch key {
		case "interval":
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return Sensitivity{}, fmt.Errorf("%w: interval %q is not a finite number", ErrInvalidTag, val)
			}
			s.Interval = f
		case "rounding":
			r := Rounding(strings.ToLower(strings.TrimSpace(val)))
			if !IsValidRounding(r) {
				return Sensitivity{}, fmt.Errorf("%w: unknown rounding %q", ErrInvalidTag, val)
			}
			s.Rounding = r
		case "algo":
			a := HashAlgo(strings.ToLower(strings.TrimSpace(val)))
			if !IsValidHashAlgo(a) {
				return Sensitivity{}, fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidTag, val)
			}
			s.Algo = a
		case "format":
			f := MaskFormat(strings.ToLower(strings.TrimSpace(val)))
			if !IsValidMaskFormat(f) {
				return Sensitivity{}, fmt.Errorf("%w: unknown mask format %q", ErrInvalidTag, val)
			}
			s.Format = f
		case "with":
			s.With = strings.Join(append([]string{val}, parts[i+1:]...), ",")
			return s, nil
		default:
			return Sensitivity{}, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
	}

	return s, nil
}

// rounding returns the configured mode, treating the zero value as floor.
func (s Sensitivity) rounding() Rounding {
	if s.Rounding == "" {
		return RoundFloor
	}
	return s.Rounding
}
