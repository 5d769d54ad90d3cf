package domain

import "time"

// IsCurrentlyActive reports whether the promotion should be shown as
// running at the given instant. The active flag and the date window
// are both required: a promotion toggled on but outside its window is
// inactive. Both bounds are inclusive. A promotion missing either
// bound cannot be evaluated and returns ErrMalformedPromotion, never
// a silent default.
func (p *Promotion) IsCurrentlyActive(now time.Time) (bool, error) {
	if p.StartDate == nil {
		return false, &ErrMalformedPromotion{ID: p.ID, Reason: "missing start_date"}
	}
	if p.EndDate == nil {
		return false, &ErrMalformedPromotion{ID: p.ID, Reason: "missing end_date"}
	}
	if !p.Active {
		return false, nil
	}
	if now.Before(*p.StartDate) || now.After(*p.EndDate) {
		return false, nil
	}
	return true, nil
}
