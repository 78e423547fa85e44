package pinpolicy

// DefaultMaxSequenceStep is the largest step magnitude treated as a sequence.
// Wider strides (e.g. 1739, step -4) do not read as sequences to people.
const DefaultMaxSequenceStep = 3

// IsSequence reports whether pin is an arithmetic progression modulo 10 whose
// normalized step lies within [-maxStep, maxStep]. The step is taken from the
// first two digits and normalized to [-5, 5], so 8901 and 9876 both qualify.
func IsSequence(pin string, maxStep int) bool {
	if len(pin) < 2 {
		return false
	}

	step := (int(pin[1]) - int(pin[0]) + 10) % 10
	if step > 5 {
		step -= 10
	}
	if step > maxStep || step < -maxStep {
		return false
	}

	for i := 1; i < len(pin)-1; i++ {
		prev := int(pin[i] - '0')
		expected := ((prev+step)%10 + 10) % 10
		if int(pin[i+1]-'0') != expected {
			return false
		}
	}
	return true
}

// IsRepetition reports whether pin is one digit repeated, or an exact tiling
// of a prefix whose length properly divides the PIN length (1212, 123123).
func IsRepetition(pin string) bool {
	n := len(pin)
	if n < 2 {
		return false
	}

	for period := 1; period <= n/2; period++ {
		if n%period != 0 {
			continue
		}
		tiled := true
		for i := period; i < n; i++ {
			if pin[i] != pin[i%period] {
				tiled = false
				break
			}
		}
		if tiled {
			return true
		}
	}
	return false
}

// IsPalindrome reports whether pin reads the same in both directions.
func IsPalindrome(pin string) bool {
	for i, j := 0, len(pin)-1; i < j; i, j = i+1, j-1 {
		if pin[i] != pin[j] {
			return false
		}
	}
	return true
}
