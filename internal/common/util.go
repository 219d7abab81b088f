// Package common contains small helpers shared across AtlasInfo components.
package common

// WipeByteArray zeroes the buffer in place. Use it on password buffers as
// soon as they are no longer needed.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
