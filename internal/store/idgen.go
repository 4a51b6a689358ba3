package store

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spec-kit/report-desk/internal/config"
)

// Generator produces candidate ticket numbers. Uniqueness is checked by the Store.
type Generator interface {
	Next(now time.Time) string
}

// IntN returns a random integer in [0, n).
type IntN func(n int) int

// StructuredGenerator yields TK-YYMMDD-NNNN numbers, NNNN in [1000, 9999].
type StructuredGenerator struct {
	loc  *time.Location
	intn IntN
}

// NewStructuredGenerator builds a generator dating numbers in loc.
func NewStructuredGenerator(loc *time.Location, intn IntN) *StructuredGenerator {
	if loc == nil {
		loc = time.Local
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &StructuredGenerator{loc: loc, intn: intn}
}

func (g *StructuredGenerator) Next(now time.Time) string {
	return fmt.Sprintf("TK-%s-%d", now.In(g.loc).Format("060102"), 1000+g.intn(9000))
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SimpleGenerator yields seven uppercase base-36 characters.
type SimpleGenerator struct {
	intn IntN
}

// NewSimpleGenerator builds the short-code generator.
func NewSimpleGenerator(intn IntN) *SimpleGenerator {
	if intn == nil {
		intn = rand.Intn
	}
	return &SimpleGenerator{intn: intn}
}

func (g *SimpleGenerator) Next(time.Time) string {
	var b strings.Builder
	b.Grow(7)
	for i := 0; i < 7; i++ {
		b.WriteByte(base36[g.intn(len(base36))])
	}
	return b.String()
}

// NewGenerator returns the generator named by cfg.IDFormat.
func NewGenerator(cfg config.TicketConfig) Generator {
	if cfg.IDFormat == config.TicketFormatSimple {
		return NewSimpleGenerator(nil)
	}
	return NewStructuredGenerator(cfg.Location(), nil)
}
