package ports

// Hasher computes content digests.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Sum returns the digest of a single text.
	Sum(text string) uint64
	// SumAll returns the digest of several texts, sensitive to order and boundaries.
	SumAll(texts ...string) uint64
}
