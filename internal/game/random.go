package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Dice is the only source of chance in the engine: act rolls, wrap bonus
// rolls and the deck shuffle all go through it.
type Dice interface {
	Roll(sides int) int
	Shuffle(n int, swap func(i, j int))
}

type SeededDice struct {
	rng *rand.Rand
}

func NewDice(seed int64) *SeededDice {
	return &SeededDice{rng: seededRNG(seed)}
}

func (d *SeededDice) Roll(sides int) int {
	if sides < 1 {
		return 0
	}
	return d.rng.IntN(sides) + 1
}

func (d *SeededDice) Shuffle(n int, swap func(i, j int)) {
	d.rng.Shuffle(n, swap)
}

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
