package utils

// Set returns value with the given bit set.
func Set(value uint8, bit uint8) uint8 {
	return value | (1 << bit)
}

// Reset returns value with the given bit cleared.
func Reset(value uint8, bit uint8) uint8 {
	return value &^ (1 << bit)
}

// Test returns true if the bit is set, false otherwise.
func Test(value uint8, bit uint8) bool {
	return value&(1<<bit) != 0
}
