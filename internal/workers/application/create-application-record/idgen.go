package createapplicationrecord

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	idPrefix = "SC"
	idMax    = 9999
)

// IDGenerator builds application IDs of the form SC<yy><nnnn>. It does not
// check for collisions; the store does.
type IDGenerator struct {
	now  func() time.Time
	intN func(n int) int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now, intN: rand.IntN}
}

// NewIDGeneratorWith injects the clock and random source.
func NewIDGeneratorWith(now func() time.Time, intN func(n int) int) *IDGenerator {
	return &IDGenerator{now: now, intN: intN}
}

func (g *IDGenerator) Generate() string {
	year := g.now().Year() % 100
	n := g.intN(idMax) + 1
	return fmt.Sprintf("%s%02d%04d", idPrefix, year, n)
}

var defaultGenerator = NewIDGenerator()

// GenerateApplicationID uses the wall clock and the global random source.
func GenerateApplicationID() string {
	return defaultGenerator.Generate()
}
