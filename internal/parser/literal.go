package parser

import (
	"fmt"
	"strconv"
	"strings"

	"pasm9618/internal/machine"
)

// LiteralCache memoizes the decimal/hex/binary text of an immediate
// literal to its parsed Cell, the one optimisation this interpreter
// performs: identical literal text seen at different source positions
// parses once.
type LiteralCache struct {
	values map[string]machine.Cell
}

// NewLiteralCache returns an empty cache.
func NewLiteralCache() *LiteralCache {
	return &LiteralCache{values: make(map[string]machine.Cell)}
}

// Parse returns the Cell value of literal text. The syllabus writes an
// immediate's base as a letter immediately after the '#' that marks it
// immediate — x for hex, o for octal, b for binary, nothing for decimal
// (e.g. "#xA", "#o17", "#b101", "#5") — so by the time this text reaches
// Parse the leading '#' is already stripped and it is exactly one of
// those four forms. The '&'/'%'/'0x' spellings are accepted too, since
// they are the forms a Direct address (no leading '#') or a data literal
// uses elsewhere in the syllabus's own example programs.
func (c *LiteralCache) Parse(text string) (machine.Cell, error) {
	if v, ok := c.values[text]; ok {
		return v, nil
	}
	v, err := parseLiteralText(text)
	if err != nil {
		return 0, err
	}
	c.values[text] = v
	return v, nil
}

func parseLiteralText(text string) (machine.Cell, error) {
	switch {
	case strings.HasPrefix(text, "&"):
		return parseLiteralBase(text, 1, 16)
	case strings.HasPrefix(text, "%"):
		return parseLiteralBase(text, 1, 2)
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return parseLiteralBase(text, 2, 16)
	case strings.HasPrefix(text, "x") || strings.HasPrefix(text, "X"):
		return parseLiteralBase(text, 1, 16)
	case strings.HasPrefix(text, "o") || strings.HasPrefix(text, "O"):
		return parseLiteralBase(text, 1, 8)
	case strings.HasPrefix(text, "b") || strings.HasPrefix(text, "B"):
		return parseLiteralBase(text, 1, 2)
	default:
		return parseLiteralBase(text, 0, 10)
	}
}

func parseLiteralBase(text string, skip, base int) (machine.Cell, error) {
	v, err := strconv.ParseUint(text[skip:], base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid literal %q: %w", text, err)
	}
	return machine.Cell(v), nil
}
