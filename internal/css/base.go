package css

const (
	leadDigits = "abcdefghijklmnopqrstuvwxyz"
	tailDigits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
)

// ToBase renders n as a short identifier. The first digit is a lower-case
// letter so the result is always a valid class name start; the remaining
// digits use a bijective base-63 numeral over [a-zA-Z0-9_]. "-" is left
// out of the alphabet because it joins file numbers to class numbers.
func ToBase(n int) string {
	if n < 0 {
		n = 0
	}
	buf := make([]byte, 0, 4)
	buf = append(buf, leadDigits[n%len(leadDigits)])
	n /= len(leadDigits)
	for n > 0 {
		n--
		buf = append(buf, tailDigits[n%len(tailDigits)])
		n /= len(tailDigits)
	}
	return string(buf)
}
