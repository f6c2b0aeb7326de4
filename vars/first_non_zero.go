package vars

// FirstNonZero implements precedence chains such as flag, then config, then environment, then default.
func FirstNonZero[T comparable](values ...T) T {
	for _, value := range values {
		var zero T
		if value != zero {
			return value
		}
	}
	var zero T
	return zero
}
