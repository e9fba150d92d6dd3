package vpath

import (
	"fmt"
	"strconv"
)

// ParseError describes why a path string was rejected. Parsing is
// all-or-nothing: on error no segments are returned.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("path parse error at %d: %s", e.Pos, e.Msg)
}

// Parse tokenizes and resolves a path string into absolute segments.
// Uppercase commands take absolute coordinates, lowercase relative.
// A command letter may be omitted to repeat the previous command (M
// continues as L), but only once an explicit command has been seen.
func Parse(src string) ([]Segment, error) {
	p := &parser{src: src}

	for {
		p.skipSeparators()
		if p.pos >= len(p.src) {
			return p.segs, nil
		}

		c := p.src[p.pos]
		if isLetter(c) {
			p.cmd = c
			p.pos++
		} else {
			// Implicit repetition of the previous command.
			switch p.cmd {
			case 0:
				return nil, p.errorf("number before any command")
			case 'M':
				p.cmd = 'L'
			case 'm':
				p.cmd = 'l'
			case 'Z', 'z':
				return nil, p.errorf("number after close")
			}
		}

		if err := p.run(); err != nil {
			return nil, err
		}
	}
}

type parser struct {
	src string
	pos int

	segs []Segment

	// The command being executed, with its original case (lowercase means
	// the arguments are relative to the cursor).
	cmd byte

	// Cursor position and the start of the current sub-path.
	x, y           float64
	startX, startY float64

	// The command that most recently emitted a segment, normalized to
	// uppercase, and the control point it left behind. S and T reflect this
	// point about the cursor; any intervening non-curve command resets it.
	prev         byte
	ctrlX, ctrlY float64
}

// run executes one occurrence of p.cmd, consuming its arguments.
func (p *parser) run() error {
	rel := p.cmd >= 'a' && p.cmd <= 'z'
	cmd := upper(p.cmd)

	switch cmd {
	case 'M':
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.segs = append(p.segs, Move{X: x, Y: y})
		p.x, p.y = x, y
		p.startX, p.startY = x, y

	case 'L':
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.line(x, y)

	case 'H':
		x, err := p.number()
		if err != nil {
			return err
		}
		if rel {
			x += p.x
		}
		p.line(x, p.y)

	case 'V':
		y, err := p.number()
		if err != nil {
			return err
		}
		if rel {
			y += p.y
		}
		p.line(p.x, y)

	case 'Z':
		p.line(p.startX, p.startY)

	case 'C':
		x1, y1, err := p.pair(rel)
		if err != nil {
			return err
		}
		x2, y2, err := p.pair(rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.cubic(x1, y1, x2, y2, x, y)

	case 'S':
		// The first control point is the previous cubic's second control
		// point reflected about the cursor, or the cursor itself if the
		// previous command was not a cubic.
		x1, y1 := p.x, p.y
		if p.prev == 'C' || p.prev == 'S' {
			x1 = 2*p.x - p.ctrlX
			y1 = 2*p.y - p.ctrlY
		}
		x2, y2, err := p.pair(rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.cubic(x1, y1, x2, y2, x, y)

	case 'Q':
		x1, y1, err := p.pair(rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.quadratic(x1, y1, x, y)

	case 'T':
		x1, y1 := p.x, p.y
		if p.prev == 'Q' || p.prev == 'T' {
			x1 = 2*p.x - p.ctrlX
			y1 = 2*p.y - p.ctrlY
		}
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.quadratic(x1, y1, x, y)

	case 'A':
		rx, err := p.number()
		if err != nil {
			return err
		}
		ry, err := p.number()
		if err != nil {
			return err
		}
		rot, err := p.number()
		if err != nil {
			return err
		}
		large, err := p.flag()
		if err != nil {
			return err
		}
		sweep, err := p.flag()
		if err != nil {
			return err
		}
		x, y, err := p.pair(rel)
		if err != nil {
			return err
		}
		p.segs = append(p.segs, Arc{
			RX:           rx,
			RY:           ry,
			AxisRotation: rot,
			LargeArc:     large,
			Sweep:        sweep,
			X:            x,
			Y:            y,
		})
		p.x, p.y = x, y

	default:
		return p.errorf("unknown command %q", p.cmd)
	}

	// Record which command ran; for S/T chains this must be the normalized
	// letter, and cubic/quadratic already stored their control point.
	p.prev = cmd
	return nil
}

func (p *parser) line(x, y float64) {
	p.segs = append(p.segs, Line{X1: p.x, Y1: p.y, X2: x, Y2: y})
	p.x, p.y = x, y
}

func (p *parser) cubic(x1, y1, x2, y2, x, y float64) {
	p.segs = append(p.segs, Cubic{
		X0: p.x, Y0: p.y,
		X1: x1, Y1: y1,
		X2: x2, Y2: y2,
		X3: x, Y3: y,
	})
	p.ctrlX, p.ctrlY = x2, y2
	p.x, p.y = x, y
}

func (p *parser) quadratic(x1, y1, x, y float64) {
	p.segs = append(p.segs, Quadratic{
		X0: p.x, Y0: p.y,
		X1: x1, Y1: y1,
		X2: x, Y2: y,
	})
	p.ctrlX, p.ctrlY = x1, y1
	p.x, p.y = x, y
}

// pair consumes two numbers, made absolute if rel.
func (p *parser) pair(rel bool) (float64, float64, error) {
	x, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	if rel {
		x += p.x
		y += p.y
	}
	return x, y, nil
}

// flag scans one arc flag: exactly one 0 or 1 digit. Flags may abut the
// next token, so this must not consume more than a single byte.
func (p *parser) flag() (bool, error) {
	p.skipSeparators()
	if p.pos >= len(p.src) || (p.src[p.pos] != '0' && p.src[p.pos] != '1') {
		return false, p.errorf("expected arc flag")
	}

	v := p.src[p.pos] == '1'
	p.pos++
	return v, nil
}

// number scans one numeric literal: sign, digits, decimal point, exponent.
func (p *parser) number() (float64, error) {
	p.skipSeparators()
	start := p.pos

	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	digits := p.digits()
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		digits = p.digits() || digits
	}
	if !digits {
		return 0, p.errorf("expected number")
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		if !p.digits() {
			return 0, p.errorf("malformed exponent")
		}
	}

	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *parser) digits() bool {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) skipSeparators() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
