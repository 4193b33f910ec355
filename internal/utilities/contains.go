package utilities

// Contains checks if a value is present in a slice.
func Contains[T comparable](slice []T, s T) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
