// Package seed provides the demo reports used to populate an empty store.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/report-desk/internal/domain"
)

//go:embed demo.yaml
var demoYAML []byte

type document struct {
	Tickets []domain.Ticket `yaml:"tickets"`
}

// Demo returns the bundled demo tickets, newest first.
func Demo() ([]domain.Ticket, error) {
	return Parse(demoYAML)
}

// Parse decodes a seed document and checks every record.
func Parse(data []byte) ([]domain.Ticket, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := make(map[string]bool, len(doc.Tickets))
	for i, t := range doc.Tickets {
		key := domain.NormalizeTicketNumber(t.TicketNumber)
		switch {
		case key == "":
			return nil, fmt.Errorf("seed ticket %d: missing ticketNumber", i)
		case seen[key]:
			return nil, fmt.Errorf("seed ticket %d: duplicate ticketNumber %s", i, t.TicketNumber)
		case !t.Status.Valid():
			return nil, fmt.Errorf("seed ticket %s: invalid status %q", t.TicketNumber, t.Status)
		}
		if _, ok := domain.ParsePriority(string(t.Priority)); !ok {
			return nil, fmt.Errorf("seed ticket %s: invalid priority %q", t.TicketNumber, t.Priority)
		}
		seen[key] = true
	}
	return doc.Tickets, nil
}
