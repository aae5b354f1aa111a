package intent

// IndexFold returns the byte offset in s of the first ASCII case-insensitive
// match of substr, or -1. Offsets refer to s itself, so they stay valid when
// s holds characters whose lower-case form has a different byte length.
func IndexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if hasPrefixFold(s[i:], substr) {
			return i
		}
	}
	return -1
}

// LastIndexFold is IndexFold searching from the end.
func LastIndexFold(s, substr string) int {
	for i := len(s) - len(substr); i >= 0; i-- {
		if hasPrefixFold(s[i:], substr) {
			return i
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lowerASCII(s[i]) != lowerASCII(prefix[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
