// Package slots computes the bookable times offered for a day.
package slots

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"clinic-booking/internal/model"
)

var ErrInvalidDate = errors.New("invalid date")

const (
	openHour    = 9
	closeHour   = 18
	stepMinutes = 15
)

// Catalog pins an explicit, ordered list of times to specific dates.
type Catalog map[string][]string

func DefaultCatalog() Catalog {
	return Catalog{
		"2025-12-05": {"10:00", "10:30", "11:00"},
		"2025-12-06": {"09:00", "09:30", "10:00"},
	}
}

type Generator struct {
	Catalog Catalog
	Now     func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{Catalog: DefaultCatalog(), Now: time.Now}
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Candidates returns the slots for date before anything booked is removed.
// Dates in the past are not rejected; they get the standard day.
func (g *Generator) Candidates(date string) ([]string, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if defined := g.Catalog[date]; len(defined) > 0 {
		return slices.Clone(defined), nil
	}

	h, m := openHour, 0
	if now := g.now(); date == now.Format(model.DateLayout) {
		// next boundary strictly after the current minute
		h = now.Hour()
		m = (now.Minute()/stepMinutes + 1) * stepMinutes
		if m == 60 {
			h++
			m = 0
		}
	}

	out := []string{}
	for h < closeHour {
		out = append(out, fmt.Sprintf("%02d:%02d", h, m))
		m += stepMinutes
		if m >= 60 {
			m = 0
			h++
		}
	}
	return out, nil
}

// Available is Candidates minus the booked times, order kept.
func (g *Generator) Available(date string, booked []string) ([]string, error) {
	c, err := g.Candidates(date)
	if err != nil {
		return nil, err
	}
	return Filter(c, booked), nil
}

func Filter(candidates, booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}
	out := make([]string, 0, len(candidates))
	for _, t := range candidates {
		if !taken[t] {
			out = append(out, t)
		}
	}
	return out
}
