// Package recurrence expands a recurrence specification into concrete dated
// visit instances and owns the compact rule-string codec used by the store.
package recurrence

import (
	"errors"
	"time"

	"github.com/example/visit-scheduler/internal/visit"
)

// Spec describes a recurrence configuration for a visit series.
type Spec struct {
	Frequency  Frequency
	Count      int
	AnchorDate time.Time
	AnchorTime string // "HH:MM"
}

// SplitService switches every instance after the first onto a secondary
// "recurrence service". When no override price or duration is supplied the
// secondary service's own defaults apply.
type SplitService struct {
	Enabled                bool
	ServiceID              string
	OverridePrice          *float64
	OverrideDuration       *int
	ServiceDefaultPrice    float64
	ServiceDefaultDuration int
}

// Options carries optional expansion behavior.
type Options struct {
	Split SplitService
}

// ErrInvalidCount indicates the requested occurrence count is below one.
var ErrInvalidCount = errors.New("recurrence: occurrence count must be at least 1")

// Expand produces the ordered projection for a spec and template. The first
// instance lands on the anchor; each later date is one period after the
// previous instance's date, not after the anchor.
//
// A spec with FrequencyNone materializes no projection (the single logical
// visit is the parent booking itself). A missing anchor date or time yields
// an empty projection rather than an error: the series is simply not ready
// to generate.
//
// Every instance receives independent copies of the template addon set and
// assignment list.
func Expand(spec Spec, tmpl visit.Template, opts Options) ([]visit.Instance, error) {
	if spec.Frequency == FrequencyNone {
		return nil, nil
	}
	if spec.AnchorDate.IsZero() || spec.AnchorTime == "" {
		return nil, nil
	}
	if spec.Count < 1 {
		return nil, ErrInvalidCount
	}

	instances := make([]visit.Instance, 0, spec.Count)
	date := visit.DateOnly(spec.AnchorDate)

	for i := 0; i < spec.Count; i++ {
		if i > 0 {
			date = AddPeriod(date, spec.Frequency)
		}

		instance := visit.Instance{
			ID:              visit.NewDraftID(),
			Date:            date,
			Time:            spec.AnchorTime,
			ServiceID:       tmpl.ServiceID,
			Price:           tmpl.Price,
			DurationMinutes: tmpl.DurationMinutes,
			PayRate:         tmpl.PayRate,
			AddonIDs:        visit.CopyAddonIDs(tmpl.AddonIDs),
			Assignments:     visit.CopyAssignments(tmpl.Assignments),
		}

		if i > 0 && opts.Split.Enabled {
			applySplitService(&instance, opts.Split)
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

func applySplitService(instance *visit.Instance, split SplitService) {
	if split.ServiceID != "" {
		instance.ServiceID = split.ServiceID
	}

	if split.OverridePrice != nil {
		instance.Price = *split.OverridePrice
	} else {
		instance.Price = split.ServiceDefaultPrice
	}

	if split.OverrideDuration != nil {
		instance.DurationMinutes = *split.OverrideDuration
	} else if split.ServiceDefaultDuration > 0 {
		instance.DurationMinutes = split.ServiceDefaultDuration
	}
}
