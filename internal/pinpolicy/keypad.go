package pinpolicy

// Point is a keypad coordinate: X is the column, Y the row.
type Point struct {
	X, Y int
}

// keypadLayout places 1-9 on rows 0-2 in reading order and 0 centered below.
// Read only through keypadPoint.
var keypadLayout = map[byte]Point{
	'1': {0, 0}, '2': {1, 0}, '3': {2, 0},
	'4': {0, 1}, '5': {1, 1}, '6': {2, 1},
	'7': {0, 2}, '8': {1, 2}, '9': {2, 2},
	'0': {1, 3},
}

// cornerCycles are the rotations and reflections of the four-corner walk 1-3-9-7.
var cornerCycles = map[string]struct{}{
	"1397": {}, "3971": {}, "9713": {}, "7139": {},
	"1793": {}, "7931": {}, "9317": {}, "3179": {},
}

// KeypadPoint returns the coordinate of digit on a telephone keypad.
func KeypadPoint(digit byte) (Point, bool) {
	p, ok := keypadLayout[digit]
	return p, ok
}

// IsKeypadPattern reports whether pin traces a straight line, a single
// right-angle L (4 digits only) or the corner cycle on the keypad. Unknown
// digits make it false.
func IsKeypadPattern(pin string) bool {
	if len(pin) < 3 {
		return false
	}

	points := make([]Point, len(pin))
	for i := 0; i < len(pin); i++ {
		p, ok := KeypadPoint(pin[i])
		if !ok {
			return false
		}
		points[i] = p
	}

	if isStraightLine(points) {
		return true
	}
	if len(points) == ShortPINLength && isLShape(points) {
		return true
	}
	_, ok := cornerCycles[pin]
	return ok
}

func isStraightLine(points []Point) bool {
	for i := 0; i+2 < len(points); i++ {
		if !collinear(points[i], points[i+1], points[i+2]) {
			return false
		}
	}
	return true
}

// collinear uses the cross-product identity to avoid division.
func collinear(a, b, c Point) bool {
	return (b.Y-a.Y)*(c.X-b.X) == (c.Y-b.Y)*(b.X-a.X)
}

// isLShape requires exactly one of the two interior joints to be a right angle.
func isLShape(points []Point) bool {
	rightAngles := 0
	for i := 1; i <= 2; i++ {
		dx1, dy1 := points[i].X-points[i-1].X, points[i].Y-points[i-1].Y
		dx2, dy2 := points[i+1].X-points[i].X, points[i+1].Y-points[i].Y
		if dx1*dx2+dy1*dy2 == 0 {
			rightAngles++
		}
	}
	return rightAngles == 1
}
