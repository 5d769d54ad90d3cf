package domain

import (
	"errors"
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestPromotionActiveInsideWindow(t *testing.T) {
	p := &Promotion{
		ID:        "promo-1",
		Active:    true,
		StartDate: datePtr(2024, 1, 1),
		EndDate:   datePtr(2024, 1, 31),
	}

	active, err := p.IsCurrentlyActive(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !active {
		t.Error("expected promotion to be active mid-window")
	}
}

func TestPromotionInactiveAfterWindow(t *testing.T) {
	p := &Promotion{
		ID:        "promo-1",
		Active:    true,
		StartDate: datePtr(2024, 1, 1),
		EndDate:   datePtr(2024, 1, 31),
	}

	active, err := p.IsCurrentlyActive(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active {
		t.Error("expected promotion to be inactive after end date")
	}
}

func TestPromotionBoundsInclusive(t *testing.T) {
	p := &Promotion{
		ID:        "promo-1",
		Active:    true,
		StartDate: datePtr(2024, 1, 1),
		EndDate:   datePtr(2024, 1, 31),
	}

	for _, now := range []time.Time{*p.StartDate, *p.EndDate} {
		active, err := p.IsCurrentlyActive(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !active {
			t.Errorf("expected promotion active at boundary %v", now)
		}
	}
}

func TestPromotionFlagOffInsideWindow(t *testing.T) {
	p := &Promotion{
		ID:        "promo-1",
		Active:    false,
		StartDate: datePtr(2024, 1, 1),
		EndDate:   datePtr(2024, 1, 31),
	}

	active, err := p.IsCurrentlyActive(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active {
		t.Error("toggled-off promotion must be inactive even inside its window")
	}
}

func TestPromotionMissingBounds(t *testing.T) {
	cases := []struct {
		name string
		p    *Promotion
	}{
		{"missing start", &Promotion{ID: "p1", Active: true, EndDate: datePtr(2024, 1, 31)}},
		{"missing end", &Promotion{ID: "p2", Active: true, StartDate: datePtr(2024, 1, 1)}},
		{"missing both", &Promotion{ID: "p3", Active: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.p.IsCurrentlyActive(time.Now())
			var malformed *ErrMalformedPromotion
			if !errors.As(err, &malformed) {
				t.Fatalf("expected ErrMalformedPromotion, got %v", err)
			}
		})
	}
}

func TestPromotionMonotonicWithinWindow(t *testing.T) {
	p := &Promotion{
		ID:        "promo-1",
		Active:    true,
		StartDate: datePtr(2024, 6, 1),
		EndDate:   datePtr(2024, 6, 30),
	}

	prev := false
	for day := 1; day <= 30; day++ {
		now := time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC)
		active, err := p.IsCurrentlyActive(now)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", day, err)
		}
		if prev && !active && now.Before(*p.EndDate) {
			t.Fatalf("day %d: promotion flapped off inside its window", day)
		}
		prev = active
	}
}
