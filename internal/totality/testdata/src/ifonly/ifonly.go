package ifonly

type Dir int

const (
	North Dir = iota
	South
)

func f(d Dir) {
	switch d {
	case North:
	}

	if d == South { // want "Match not exhaustive, values not matched: 0"
	}
}
