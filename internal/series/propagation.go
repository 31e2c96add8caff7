package series

import "github.com/example/visit-scheduler/internal/visit"

// Propagate copies the source instance's overridable fields onto every
// instance that sorts after it in the projection: service, price, duration,
// time of day, pay rate, addon set and assignment list. The calendar date
// is never carried forward, only day-of-visit fields. Instances at or
// before the source index, including the source itself, are untouched.
//
// This is a one-shot bulk overwrite, not a continuous binding; later edits
// to a propagated instance do not re-trigger it. Nothing is persisted here.
//
// The returned count is the number of instances updated, surfaced to the
// operator as confirmation.
func (p *Projection) Propagate(sourceID string) (int, error) {
	idx := p.indexOf(sourceID)
	if idx < 0 {
		return 0, ErrInstanceNotFound
	}

	source := p.instances[idx]
	updated := 0
	for i := idx + 1; i < len(p.instances); i++ {
		target := &p.instances[i]
		target.ServiceID = source.ServiceID
		target.Price = source.Price
		target.DurationMinutes = source.DurationMinutes
		target.Time = source.Time
		target.PayRate = source.PayRate
		target.AddonIDs = visit.CopyAddonIDs(source.AddonIDs)
		target.Assignments = visit.CopyAssignments(source.Assignments)
		updated++
	}

	if updated > 0 {
		p.state = StateUserEdited
	}
	return updated, nil
}
