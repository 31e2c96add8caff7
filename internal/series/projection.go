// Package series owns the in-memory projection of a visit series: its
// lifecycle state machine, bulk propagation of edits, and the save-time
// reconciliation diff against persisted state.
package series

import (
	"errors"
	"fmt"

	"github.com/example/visit-scheduler/internal/recurrence"
	"github.com/example/visit-scheduler/internal/visit"
)

// State tracks how the projection was produced and whether it carries
// manual edits.
type State string

const (
	// StateUninitialized means no instances have been generated.
	StateUninitialized State = "uninitialized"
	// StateGenerated means the projection reflects a pure expansion.
	StateGenerated State = "generated"
	// StateUserEdited means at least one instance carries a manual change.
	// Regeneration from this state requires the caller's explicit consent.
	StateUserEdited State = "user_edited"
)

var (
	// ErrInstanceNotFound indicates the referenced instance is not in the
	// projection.
	ErrInstanceNotFound = errors.New("series: instance not found")
	// ErrEditsWouldBeLost indicates a regeneration was attempted over
	// manual edits without the force flag.
	ErrEditsWouldBeLost = errors.New("series: regeneration would discard manual edits")
)

// Projection is the mutable in-memory collection of visit instances for the
// currently open series. It is not safe for concurrent use; the save path
// is request-scoped.
type Projection struct {
	state     State
	spec      recurrence.Spec
	instances []visit.Instance
}

// NewProjection returns an empty projection.
func NewProjection() *Projection {
	return &Projection{state: StateUninitialized}
}

// State returns the projection lifecycle state.
func (p *Projection) State() State {
	if p == nil {
		return StateUninitialized
	}
	return p.state
}

// Spec returns the recurrence spec the projection was last generated or
// initialized from.
func (p *Projection) Spec() recurrence.Spec {
	if p == nil {
		return recurrence.Spec{}
	}
	return p.spec
}

// Len returns the number of instances currently projected. This may be
// lower than the spec's count after manual removals; the persisted
// recurrence_count is always the actual length.
func (p *Projection) Len() int {
	if p == nil {
		return 0
	}
	return len(p.instances)
}

// Instances returns a deep copy of the projected instances in order.
func (p *Projection) Instances() []visit.Instance {
	if p == nil || len(p.instances) == 0 {
		return nil
	}
	out := make([]visit.Instance, len(p.instances))
	for i, in := range p.instances {
		out[i] = in.Clone()
	}
	return out
}

// Get returns a copy of the instance with the given id.
func (p *Projection) Get(id string) (visit.Instance, bool) {
	idx := p.indexOf(id)
	if idx < 0 {
		return visit.Instance{}, false
	}
	return p.instances[idx].Clone(), true
}

// Regenerate replaces the projection wholesale from a fresh expansion.
// Once the projection carries manual edits it refuses to regenerate unless
// force is set, so an unrelated field change can never silently discard an
// operator's per-visit tuning. An expansion that is not ready (missing
// anchor) clears the projection.
func (p *Projection) Regenerate(spec recurrence.Spec, tmpl visit.Template, opts recurrence.Options, force bool) error {
	if p == nil {
		return fmt.Errorf("series: projection is nil")
	}
	if p.state == StateUserEdited && !force {
		return ErrEditsWouldBeLost
	}

	instances, err := recurrence.Expand(spec, tmpl, opts)
	if err != nil {
		return err
	}

	p.spec = spec
	p.instances = instances
	if len(instances) == 0 {
		p.state = StateUninitialized
		return nil
	}
	p.state = StateGenerated
	return nil
}

// InitFromPersisted seeds the projection with previously stored instances.
// Used when an existing series is reopened with unchanged recurrence
// parameters: generation is skipped and the stored per-visit overrides
// survive. The projection lands in StateUserEdited so a later regeneration
// must be explicit.
func (p *Projection) InitFromPersisted(spec recurrence.Spec, instances []visit.Instance) {
	if p == nil {
		return
	}
	p.spec = spec
	p.instances = make([]visit.Instance, len(instances))
	for i, in := range instances {
		p.instances[i] = in.Clone()
	}
	p.state = StateUserEdited
}

// Edit carries the per-instance fields an operator may override. Nil
// pointers leave the corresponding field unchanged.
type Edit struct {
	Date            *string // "2006-01-02"
	Time            *string
	ServiceID       *string
	Price           *float64
	DurationMinutes *int
	PayRate         *float64
	AddonIDs        []string // nil leaves the set unchanged
	Assignments     []visit.Assignment
	SetAssignments  bool // distinguishes "clear all" from "unchanged"
}

// Apply mutates a single instance and marks the projection user-edited.
func (p *Projection) Apply(id string, edit Edit) error {
	idx := p.indexOf(id)
	if idx < 0 {
		return ErrInstanceNotFound
	}

	in := &p.instances[idx]
	if edit.Date != nil {
		parsed, err := visit.ParseDate(*edit.Date)
		if err != nil {
			return err
		}
		in.Date = parsed
	}
	if edit.Time != nil {
		in.Time = *edit.Time
	}
	if edit.ServiceID != nil {
		in.ServiceID = *edit.ServiceID
	}
	if edit.Price != nil {
		in.Price = *edit.Price
	}
	if edit.DurationMinutes != nil {
		in.DurationMinutes = *edit.DurationMinutes
	}
	if edit.PayRate != nil {
		in.PayRate = *edit.PayRate
	}
	if edit.AddonIDs != nil {
		in.AddonIDs = visit.CopyAddonIDs(edit.AddonIDs)
	}
	if edit.SetAssignments {
		in.Assignments = visit.CopyAssignments(edit.Assignments)
	}

	p.state = StateUserEdited
	return nil
}

// Remove deletes one instance from the projection. The projection length
// and the requested occurrence count are allowed to diverge afterwards.
func (p *Projection) Remove(id string) error {
	idx := p.indexOf(id)
	if idx < 0 {
		return ErrInstanceNotFound
	}
	p.instances = append(p.instances[:idx], p.instances[idx+1:]...)
	p.state = StateUserEdited
	return nil
}

// SuggestPropagation reports whether the UI should offer to carry an edit
// forward. The heuristic: an edit to the second visit of a series with at
// least three visits usually signals a new normal cadence rather than a
// one-off exception. Advisory only; never part of the engine contract.
func (p *Projection) SuggestPropagation(editedID string) bool {
	if p == nil || len(p.instances) < 3 {
		return false
	}
	return p.indexOf(editedID) == 1
}

func (p *Projection) indexOf(id string) int {
	if p == nil {
		return -1
	}
	for i, in := range p.instances {
		if in.ID == id {
			return i
		}
	}
	return -1
}
