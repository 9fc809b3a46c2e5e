package shroud

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RedactedLiteral replaces redacted values when no with option is given.
const RedactedLiteral = "***"

// visibleTail is how many trailing characters masking leaves readable.
const visibleTail = 4

type redactTransform struct{}

// Redact returns the built-in redact transform.
// Any non-nil value becomes RedactedLiteral, or the tag's with option.
func Redact() ConfigurableTransform {
	return redactTransform{}
}

func (t redactTransform) Apply(value any) (any, error) {
	return t.ApplyWith(value, Sensitivity{Method: MethodRedact})
}

func (redactTransform) ApplyWith(value any, s Sensitivity) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s.With != "" {
		return s.With, nil
	}
	return RedactedLiteral, nil
}

// Masker applies a masking layout to text.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string { return f(value) }

type maskTransform struct {
	maskers map[MaskFormat]Masker
}

// Mask returns the built-in mask transform.
// Without a format option every character except the last four is
// replaced by '*'; text shorter than four characters is redacted.
func Mask() ConfigurableTransform {
	return &maskTransform{maskers: builtinMaskers()}
}

func (t *maskTransform) Apply(value any) (any, error) {
	return t.ApplyWith(value, Sensitivity{Method: MethodMask})
}

func (t *maskTransform) ApplyWith(value any, s Sensitivity) (any, error) {
	if value == nil {
		return nil, nil
	}
	format := s.Format
	if format == "" {
		format = MaskTail
	}
	m, ok := t.maskers[format]
	if !ok {
		return nil, newConfigError(ErrInvalidTag, string(format), "")
	}
	return m.Mask(textOf(value)), nil
}

func builtinMaskers() map[MaskFormat]Masker {
	return map[MaskFormat]Masker{
		MaskTail:  MaskerFunc(maskTail),
		MaskEmail: MaskerFunc(maskEmail),
		MaskPhone: MaskerFunc(maskPhone),
		MaskCard:  MaskerFunc(maskCard),
		MaskIP:    MaskerFunc(maskIP),
		MaskName:  MaskerFunc(maskName),
	}
}

// maskTail keeps the last four runes. Length is preserved.
func maskTail(value string) string {
	n := utf8.RuneCountInString(value)
	if n < visibleTail {
		return RedactedLiteral
	}
	runes := []rune(value)
	return strings.Repeat("*", n-visibleTail) + string(runes[n-visibleTail:])
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return maskTail(value)
	}
	first, _ := utf8.DecodeRuneInString(value)
	return string(first) + "***" + value[at:]
}

func maskPhone(value string) string {
	digits := digitsOf(value)
	if len(digits) < visibleTail {
		return RedactedLiteral
	}
	last := digits[len(digits)-visibleTail:]
	switch {
	case strings.HasPrefix(value, "(") && len(digits) >= 10:
		return "(***) ***-" + last
	case len(digits) >= 10:
		return "***-***-" + last
	default:
		return "***-" + last
	}
}

func maskCard(value string) string {
	digits := digitsOf(value)
	if len(digits) < visibleTail {
		return RedactedLiteral
	}
	last := digits[len(digits)-visibleTail:]

	var sep string
	switch {
	case strings.Contains(value, " "):
		sep = " "
	case strings.Contains(value, "-"):
		sep = "-"
	default:
		return strings.Repeat("*", len(digits)-visibleTail) + last
	}

	groups := make([]string, 0, (len(digits)-visibleTail+3)/4+1)
	for i := 0; i < len(digits)-visibleTail; i += 4 {
		groups = append(groups, "****")
	}
	return strings.Join(append(groups, last), sep)
}

// maskIP keeps the network half of an address: two octets for IPv4, four
// groups for IPv6. Unparseable input falls back to tail masking.
func maskIP(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return maskTail(value)
	}
	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.xxx.xxx", b[0], b[1])
	}
	groups := strings.Split(addr.StringExpanded(), ":")
	return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
}

func maskName(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(first) + strings.Repeat("*", utf8.RuneCountInString(w[size:]))
	}
	return strings.Join(words, " ")
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
