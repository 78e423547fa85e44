package pinpolicy

// Accepted PIN lengths.
const (
	ShortPINLength = 4
	LongPINLength  = 6
)

// ValidFormat reports whether pin is exactly 4 or 6 ASCII digits.
// No trimming is applied.
func ValidFormat(pin string) bool {
	if len(pin) != ShortPINLength && len(pin) != LongPINLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
