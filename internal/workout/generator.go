// Package workout generates weekly training plans from user preferences and scores how well they serve the user's goal.
package workout

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generator builds workouts and weekly plans from a [Catalog].
//
// All randomness, including generated ids, comes from a ChaCha8 stream seeded in [NewGenerator] so a fixed seed
// produces identical output. A Generator is not safe for concurrent use.
type Generator struct {
	catalog *Catalog
	src     *rand.ChaCha8
	rng     *rand.Rand
}

// NewGenerator creates a generator drawing from catalog. A nil catalog means [DefaultCatalog].
func NewGenerator(catalog *Catalog, seed uint64) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	var chachaSeed [32]byte
	binary.LittleEndian.PutUint64(chachaSeed[:], seed)
	src := rand.NewChaCha8(chachaSeed)
	return &Generator{
		catalog: catalog,
		src:     src,
		rng:     rand.New(src),
	}
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8 reads never fail.
		panic(err)
	}
	return id.String()
}

// sample returns up to n elements of pool picked uniformly without replacement.
func sample[T any](rng *rand.Rand, pool []T, n int) []T {
	shuffled := make([]T, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:max(0, min(n, len(shuffled)))]
}
