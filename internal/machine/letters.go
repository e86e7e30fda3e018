package machine

// Letters is the size of the machine alphabet.
const Letters = 26

// Index maps 'A'..'Z' to 0..25.
func Index(c byte) (int, bool) {
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	return int(c - 'A'), true
}

// Letter maps any int onto 'A'..'Z', reducing it modulo 26 first.
func Letter(i int) byte {
	return byte('A' + mod(i))
}

// ParseLetters converts a string such as "MCK" into letter indices.
// field names the setting in the returned error.
func ParseLetters(field, s string) ([]int, error) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := Index(s[i])
		if !ok {
			return nil, &ConfigurationError{Field: field, Value: s, Reason: "letters must be A-Z"}
		}
		out[i] = c
	}
	return out, nil
}

// CheckText reports a ConfigurationError if msg holds anything but A-Z.
func CheckText(field, msg string) error {
	for i := 0; i < len(msg); i++ {
		if msg[i] < 'A' || msg[i] > 'Z' {
			return &ConfigurationError{
				Field:  field,
				Value:  string(msg[i]),
				Reason: "only letters A-Z are allowed",
			}
		}
	}
	return nil
}

func mod(i int) int {
	i %= Letters
	if i < 0 {
		i += Letters
	}
	return i
}
