package npy

import (
	"fmt"
	"strings"
)

// parseState is a state of the header dictionary tokenizer.
type parseState uint8

const (
	searchOpenBrace parseState = iota
	searchKeyQuote
	storeKey
	searchSeparator
	searchValue
	storeValue
	storeQuotedValue
	storeValueParens
	searchTrailingComma
	parseDone
)

var parseStateNames = [...]string{
	searchOpenBrace:     "SearchOpenBrace",
	searchKeyQuote:      "SearchKeyQuote",
	storeKey:            "StoreKey",
	searchSeparator:     "SearchSeparator",
	searchValue:         "SearchValue",
	storeValue:          "StoreValue",
	storeQuotedValue:    "StoreQuotedValue",
	storeValueParens:    "StoreValueParens",
	searchTrailingComma: "SearchTrailingComma",
	parseDone:           "Done",
}

func (s parseState) String() string {
	if int(s) < len(parseStateNames) {
		return parseStateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// metaParser turns the header text into key/value pairs. Values keep their
// source text: quoted strings keep their quotes, tuples keep their
// parentheses and inner commas.
type metaParser struct {
	state parseState
	key   strings.Builder
	value strings.Builder
	depth int
	pos   int
	dict  map[string]string
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ParseMetadata parses a header dictionary literal such as
//
//	{'descr': '<f4', 'fortran_order': False, 'shape': (2, 3), }
//
// into a flat key to raw value mapping. Text after the closing brace
// (numpy pads the header with spaces and a newline) is ignored.
func ParseMetadata(text string) (map[string]string, error) {
	p := &metaParser{dict: make(map[string]string, 3)}
	for i, c := range text {
		p.pos = i
		if err := p.step(c); err != nil {
			return nil, err
		}
		if p.state == parseDone {
			return p.dict, nil
		}
	}
	return nil, newError(ErrHeaderParse, StageMetadata, "unterminated dictionary (stopped in %s)", p.state)
}

func (p *metaParser) fail(c rune) error {
	return newError(ErrHeaderParse, StageMetadata, "unexpected %q at offset %d in %s", c, p.pos, p.state)
}

func (p *metaParser) commit() error {
	k := p.key.String()
	if _, dup := p.dict[k]; dup {
		return newError(ErrHeaderParse, StageMetadata, "duplicate key %q", k)
	}
	p.dict[k] = p.value.String()
	return nil
}

func (p *metaParser) startValue(c rune, next parseState) {
	p.value.Reset()
	p.value.WriteRune(c)
	p.state = next
}

// step is the transition function.
func (p *metaParser) step(c rune) error {
	switch p.state {
	case searchOpenBrace:
		switch {
		case isSpace(c):
		case c == '{':
			p.state = searchKeyQuote
		default:
			return p.fail(c)
		}

	case searchKeyQuote:
		switch {
		case isSpace(c):
		case c == '\'':
			p.key.Reset()
			p.state = storeKey
		case c == '}':
			// "{... , }" as written by numpy, or an empty dict.
			p.state = parseDone
		default:
			return p.fail(c)
		}

	case storeKey:
		if c == '\'' {
			p.state = searchSeparator
			return nil
		}
		p.key.WriteRune(c)

	case searchSeparator:
		switch {
		case isSpace(c):
		case c == ':':
			p.state = searchValue
		default:
			return p.fail(c)
		}

	case searchValue:
		switch {
		case isSpace(c):
		case c == '\'':
			p.startValue(c, storeQuotedValue)
		case c == '(':
			p.depth = 1
			p.startValue(c, storeValueParens)
		case c == '{', c == '}', c == ':', c == ',', c == ')':
			return p.fail(c)
		default:
			p.startValue(c, storeValue)
		}

	case storeValue:
		switch {
		case isSpace(c):
		case c == ',':
			if err := p.commit(); err != nil {
				return err
			}
			p.state = searchKeyQuote
		case c == '}':
			if err := p.commit(); err != nil {
				return err
			}
			p.state = parseDone
		default:
			p.value.WriteRune(c)
		}

	case storeQuotedValue:
		p.value.WriteRune(c)
		if c == '\'' {
			if err := p.commit(); err != nil {
				return err
			}
			p.state = searchTrailingComma
		}

	case storeValueParens:
		p.value.WriteRune(c)
		switch c {
		case '(':
			p.depth++
		case ')':
			p.depth--
			if p.depth == 0 {
				p.state = storeValue
			}
		}

	case searchTrailingComma:
		switch {
		case isSpace(c):
		case c == ',':
			p.state = searchKeyQuote
		case c == '}':
			p.state = parseDone
		default:
			return p.fail(c)
		}
	}
	return nil
}
