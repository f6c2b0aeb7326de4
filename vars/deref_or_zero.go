package vars

// DerefOrZero reads an optional value, such as an unset sampling parameter.
func DerefOrZero[T any](ptr *T) (ret T) {
	if ptr != nil {
		ret = *ptr
	}
	return
}
