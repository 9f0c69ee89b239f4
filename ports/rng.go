package ports

// Random is a source of uniform variates in [0, 1). Implementations are not
// safe for concurrent use; each generation request owns its own source.
type Random interface {
	Next() float64
}
