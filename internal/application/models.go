package application

// Principal identifies the operator and tenant invoking a service method.
// Authentication itself is an external collaborator; the engine only
// requires that the tenant id is present before any write.
type Principal struct {
	CompanyID  string
	OperatorID string
	IsAdmin    bool
}

// AssignmentInput captures one staff assignment supplied by the caller.
type AssignmentInput struct {
	MemberID    string  `json:"member_id"`
	PayRate     float64 `json:"pay_rate"`
	DisplayName string  `json:"display_name"`
}

// SplitServiceInput switches recurring visits after the first onto a
// secondary service. Nil price/duration fall back to that service's
// catalog defaults.
type SplitServiceInput struct {
	ServiceID       string   `json:"service_id"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
}

// DiscountInput is applied once to the aggregate series total.
type DiscountInput struct {
	Kind   string  `json:"kind"` // "fixed" or "percent"
	Value  float64 `json:"value"`
	Reason string  `json:"reason,omitempty"`
}

// VisitInput is one visit of a posted projection. A missing or
// draft-prefixed id marks an unsaved visit.
type VisitInput struct {
	ID              string            `json:"id,omitempty"`
	Date            string            `json:"date"` // "2006-01-02"
	Time            string            `json:"time"` // "HH:MM"
	ServiceID       string            `json:"service_id"`
	Price           float64           `json:"price"`
	DurationMinutes int               `json:"duration_minutes"`
	PayRate         float64           `json:"pay_rate"`
	AddonIDs        []string          `json:"addon_ids,omitempty"`
	Assignments     []AssignmentInput `json:"assignments,omitempty"`
}

// SeriesInput captures caller provided booking-series fields.
type SeriesInput struct {
	CustomerID      string             `json:"customer_id"`
	ServiceID       string             `json:"service_id"`
	Price           float64            `json:"price"`
	DurationMinutes int                `json:"duration_minutes"`
	PayRate         float64            `json:"pay_rate"`
	AddonIDs        []string           `json:"addon_ids,omitempty"`
	Assignments     []AssignmentInput  `json:"assignments,omitempty"`
	Frequency       string             `json:"frequency,omitempty"` // "", daily, weekly, biweekly, monthly
	OccurrenceCount int                `json:"occurrence_count,omitempty"`
	AnchorDate      string             `json:"anchor_date,omitempty"` // "2006-01-02"
	AnchorTime      string             `json:"anchor_time,omitempty"` // "HH:MM"
	SplitService    *SplitServiceInput `json:"split_service,omitempty"`
	Discount        *DiscountInput     `json:"discount,omitempty"`

	// Visits, when present on an update, is the operator's edited
	// projection posted back verbatim. When absent the persisted
	// instances are kept unless the recurrence parameters changed.
	Visits []VisitInput `json:"visits,omitempty"`
}

// AssignmentView renders one stored assignment.
type AssignmentView struct {
	MemberID    string  `json:"member_id"`
	PayRate     float64 `json:"pay_rate"`
	DisplayName string  `json:"display_name,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// VisitView renders one stored or previewed visit.
type VisitView struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	ServiceID       string           `json:"service_id"`
	Price           float64          `json:"price"`
	DurationMinutes int              `json:"duration_minutes"`
	PayRate         float64          `json:"pay_rate"`
	AddonIDs        []string         `json:"addon_ids,omitempty"`
	Assignments     []AssignmentView `json:"assignments,omitempty"`
}

// PricingView itemizes the aggregate display total.
type PricingView struct {
	InstancesTotal float64 `json:"instances_total"`
	AddonsPerVisit float64 `json:"addons_per_visit"`
	VisitCount     int     `json:"visit_count"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// SeriesView renders a stored series.
type SeriesView struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	RecurrenceRule  string      `json:"recurrence_rule,omitempty"`
	RecurrenceCount int         `json:"recurrence_count"`
	Visits          []VisitView `json:"visits"`
	Pricing         PricingView `json:"pricing"`
}

// PreviewView renders an expansion-and-pricing preview; nothing persisted.
type PreviewView struct {
	Visits  []VisitView `json:"visits"`
	Pricing PricingView `json:"pricing"`
}

// CreateSeriesParams wraps the data required to create a series.
type CreateSeriesParams struct {
	Principal Principal
	Input     SeriesInput
}

// UpdateSeriesParams wraps the data required to save an edited series.
type UpdateSeriesParams struct {
	Principal Principal
	ParentID  string
	Input     SeriesInput
}

// PreviewParams wraps the data required to preview a series.
type PreviewParams struct {
	Principal Principal
	Input     SeriesInput
}

// ServiceView renders a service catalog entry.
type ServiceView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// AddonView renders an addon catalog entry.
type AddonView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// MemberOption labels one staff member for a visit slot.
type MemberOption struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	PayRate     float64 `json:"pay_rate"`
}

// MemberOptions partitions staff for a slot. Advisory only; an
// unavailable member can still be assigned and saved.
type MemberOptions struct {
	Available   []MemberOption `json:"available"`
	Unavailable []MemberOption `json:"unavailable"`
}
