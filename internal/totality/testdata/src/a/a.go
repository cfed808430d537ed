package a

import "enum"

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Shape string

const (
	Circle Shape = "circle"
	Square Shape = "square"
)

type palette struct {
	primary Color
}

func switches(c Color, s Shape, n int) {
	switch c { // want "Match not exhaustive, values not matched: 2"
	case Red:
	case Green:
	}

	switch c {
	case Blue, Green, Red:
	}

	switch c {
	case Red:
	default:
	}

	switch s { // want "Match not exhaustive, values not matched: square"
	case Circle:
	}

	switch n {
	case 1:
	}

	switch {
	case c == Red:
	}
}

func chains(c Color, p palette, n int) {
	if c == Red { // want "Match not exhaustive, values not matched: 2"
	} else if c == Green {
	}

	if c == Red || c == Green {
	} else if c == Blue {
	}

	if c == Red {
	} else if c == Green {
	} else {
	}

	if p.primary == Blue { // want "Match not exhaustive, values not matched: 0, 1"
	}

	if c == Red {
	} else if n == 2 {
	}

	if n == 0 {
	} else if c == Red { // want "Match not exhaustive, values not matched: 1, 2"
	}
}

func nested(c Color, s Shape) {
	switch c {
	case Red, Green, Blue:
		if s == Circle { // want "Match not exhaustive, values not matched: square"
		}
	}
}

func foreign(m enum.Mode) {
	switch m { // want "Match not exhaustive, values not matched: 1"
	case enum.ModeRead:
	}

	switch m {
	case enum.ModeRead, enum.ModeWrite:
	}
}
