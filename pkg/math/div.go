package math

func DivRoundUp[T Integer](a, b T) T {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// Split breaks a byte offset into the number of whole units of `size` that
// precede it and the remainder within the unit that contains it.
func Split[T Integer](offset, size T) (T, T) {
	return offset / size, offset % size
}
