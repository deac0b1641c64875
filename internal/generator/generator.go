package generator

// Generator produces opaque viewer identifiers.
type Generator interface {
	Generate() (string, error)
}
