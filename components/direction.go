package components

// Direction is a migration decision.
type Direction uint8

const (
	Stay Direction = iota
	North
	East
	South
	West
)

// Compass lists the four moves in draw-bucket order.
var Compass = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return "Stay"
}

// Offset returns the row and column delta of a move. North is row-1.
func (d Direction) Offset() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	}
	return 0, 0
}
