package squares

import "fmt"

// EmptyAxis returns axis numbers with no digit assigned to any position.
func EmptyAxis() AxisNumbers {
	var axis AxisNumbers
	for i := range GridSize {
		axis.Rows[i] = -1
		axis.Cols[i] = -1
	}
	return axis
}

// Assigned reports whether any position carries a digit.
func (a AxisNumbers) Assigned() bool {
	for i := range GridSize {
		if a.Rows[i] != -1 || a.Cols[i] != -1 {
			return true
		}
	}
	return false
}

// Validate checks that both axes are permutations of 0-9.
func (a AxisNumbers) Validate() error {
	if !isPermutation(a.Rows) {
		return fmt.Errorf("row axis %v: %w", a.Rows, ErrAxisIntegrity)
	}
	if !isPermutation(a.Cols) {
		return fmt.Errorf("col axis %v: %w", a.Cols, ErrAxisIntegrity)
	}
	return nil
}

func isPermutation(values [GridSize]int) bool {
	var seen [GridSize]bool
	for _, value := range values {
		if value < 0 || value >= GridSize || seen[value] {
			return false
		}
		seen[value] = true
	}
	return true
}

func indexOf(values [GridSize]int, digit int) int {
	for position, value := range values {
		if value == digit {
			return position
		}
	}
	return -1
}

// GenerateAxis draws two independent Fisher-Yates permutations of 0-9.
// intn must return a uniform value in [0, n).
func GenerateAxis(intn func(n int) int) AxisNumbers {
	return AxisNumbers{
		Rows: shuffledDigits(intn),
		Cols: shuffledDigits(intn),
	}
}

func shuffledDigits(intn func(n int) int) [GridSize]int {
	var digits [GridSize]int
	for i := range digits {
		digits[i] = i
	}
	for i := len(digits) - 1; i > 0; i-- {
		j := intn(i + 1)
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits
}
