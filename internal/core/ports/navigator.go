package ports

// Navigator abstracts client-side navigation. Navigate pushes a new location,
// Replace swaps the current one so back-navigation cannot return to it, and
// Current reports where the client is.
type Navigator interface {
	Navigate(path string)
	Replace(path string)
	Current() string
}
