package domain

// Zero overwrites a byte slice with zeros. Callers use it to clear key
// material and decrypted payloads as soon as they are no longer needed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
