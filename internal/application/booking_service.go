package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/visit-scheduler/internal/persistence"
	"github.com/example/visit-scheduler/internal/pricing"
	"github.com/example/visit-scheduler/internal/recurrence"
	"github.com/example/visit-scheduler/internal/series"
	"github.com/example/visit-scheduler/internal/visit"
)

// assignmentStatusDefault is written on newly created assignment links.
const assignmentStatusDefault = "assigned"

// BookingService orchestrates expansion, reconciliation and persistence
// for visit series operations.
type BookingService struct {
	bookings    persistence.BookingRepository
	services    persistence.ServiceCatalog
	addons      persistence.AddonCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings persistence.BookingRepository, services persistence.ServiceCatalog, addons persistence.AddonCatalog, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, services, addons, idGenerator, now, nil)
}

// NewBookingServiceWithLogger wires dependencies plus a base logger.
func NewBookingServiceWithLogger(bookings persistence.BookingRepository, services persistence.ServiceCatalog, addons persistence.AddonCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = visit.NewID
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		services:    services,
		addons:      addons,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateSeries expands the requested recurrence and persists the whole
// series in one transactional write set. A non-recurring input produces a
// single parent row with a NULL rule.
func (s *BookingService) CreateSeries(ctx context.Context, params CreateSeriesParams) (SeriesView, error) {
	if s == nil || s.bookings == nil {
		return SeriesView{}, fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "booking", "create_series")

	// Referential failures abort before any write is attempted.
	if params.Principal.CompanyID == "" {
		return SeriesView{}, ErrUnauthorized
	}

	input := params.Input
	vErr := &ValidationError{}
	validateSeriesCore(input, vErr)
	spec, opts, tmpl := s.buildGeneration(ctx, input, vErr)
	addonPrices, err := s.addonPrices(ctx, input, vErr)
	if err != nil {
		return SeriesView{}, err
	}
	if vErr.HasErrors() {
		return SeriesView{}, vErr
	}

	instances, err := s.expand(spec, opts, tmpl, input)
	if err != nil {
		return SeriesView{}, err
	}

	plan := series.Reconcile(instances, nil)
	apply, parentID, err := s.applyFromPlan(plan, "", nil, params.Principal.CompanyID, input.CustomerID, spec, len(instances), addonPrices)
	if err != nil {
		return SeriesView{}, err
	}

	if err := s.bookings.ApplySeriesPlan(ctx, apply); err != nil {
		logger.ErrorContext(ctx, "series create failed", "error", err, "error_kind", ErrorKind(err))
		return SeriesView{}, mapBookingRepoError(err)
	}

	logger.InfoContext(ctx, "series created", "parent_id", parentID, "visits", len(instances))
	return s.loadView(ctx, parentID, input.Discount)
}

// UpdateSeries reconciles the operator's edited projection against the
// persisted series state and applies the resulting plan atomically.
//
// When the request omits an explicit visit list the persisted instances
// are reused verbatim if the recurrence parameters are unchanged; a
// parameter change regenerates the projection wholesale, with the anchor
// keeping its persisted identity.
func (s *BookingService) UpdateSeries(ctx context.Context, params UpdateSeriesParams) (SeriesView, error) {
	if s == nil || s.bookings == nil {
		return SeriesView{}, fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "booking", "update_series", "parent_id", params.ParentID)

	if params.Principal.CompanyID == "" {
		return SeriesView{}, ErrUnauthorized
	}

	record, err := s.bookings.GetSeries(ctx, params.ParentID)
	if err != nil {
		return SeriesView{}, mapBookingRepoError(err)
	}
	if record.Parent.CompanyID != params.Principal.CompanyID && !params.Principal.IsAdmin {
		return SeriesView{}, ErrUnauthorized
	}

	input := params.Input
	input.CustomerID = record.Parent.CustomerID // customer cannot be changed

	vErr := &ValidationError{}
	validateSeriesCore(input, vErr)
	spec, opts, tmpl := s.buildGeneration(ctx, input, vErr)
	addonPrices, err := s.addonPrices(ctx, input, vErr)
	if err != nil {
		return SeriesView{}, err
	}
	if vErr.HasErrors() {
		return SeriesView{}, vErr
	}

	persisted := instancesFromRecord(record)

	current, err := s.currentProjection(input, spec, opts, tmpl, record, persisted)
	if err != nil {
		return SeriesView{}, err
	}

	plan := series.Reconcile(current, persisted)
	for _, id := range plan.DeleteIDs {
		if id == record.Parent.ID {
			vErr.add("visits", "series anchor cannot be removed; delete the series instead")
			return SeriesView{}, vErr
		}
	}

	apply, _, err := s.applyFromPlan(plan, record.Parent.ID, &record.Parent, record.Parent.CompanyID, record.Parent.CustomerID, spec, len(current), addonPrices)
	if err != nil {
		return SeriesView{}, err
	}

	if err := s.bookings.ApplySeriesPlan(ctx, apply); err != nil {
		logger.ErrorContext(ctx, "series save failed", "error", err, "error_kind", ErrorKind(err))
		return SeriesView{}, mapBookingRepoError(err)
	}

	logger.InfoContext(ctx, "series saved",
		"inserts", len(plan.Inserts), "updates", len(plan.Updates), "deletes", len(plan.DeleteIDs))
	return s.loadView(ctx, record.Parent.ID, input.Discount)
}

// GetSeries fetches a stored series for the principal's company.
func (s *BookingService) GetSeries(ctx context.Context, principal Principal, parentID string) (SeriesView, error) {
	if s == nil || s.bookings == nil {
		return SeriesView{}, fmt.Errorf("booking repository not configured")
	}
	if principal.CompanyID == "" {
		return SeriesView{}, ErrUnauthorized
	}

	record, err := s.bookings.GetSeries(ctx, parentID)
	if err != nil {
		return SeriesView{}, mapBookingRepoError(err)
	}
	if record.Parent.CompanyID != principal.CompanyID && !principal.IsAdmin {
		return SeriesView{}, ErrUnauthorized
	}

	return s.viewFromRecord(ctx, record, nil)
}

// DeleteSeries removes a series and all dependent rows.
func (s *BookingService) DeleteSeries(ctx context.Context, principal Principal, parentID string) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}
	if principal.CompanyID == "" {
		return ErrUnauthorized
	}

	existing, err := s.bookings.GetBooking(ctx, parentID)
	if err != nil {
		return mapBookingRepoError(err)
	}
	if existing.CompanyID != principal.CompanyID && !principal.IsAdmin {
		return ErrUnauthorized
	}

	if err := s.bookings.DeleteSeries(ctx, parentID); err != nil {
		return mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "booking", "delete_series", "parent_id", parentID).
		InfoContext(ctx, "series deleted")
	return nil
}

// PreviewSeries expands and prices a series without persisting anything.
// This is the continuous display path: it runs on every relevant form
// change.
func (s *BookingService) PreviewSeries(ctx context.Context, params PreviewParams) (PreviewView, error) {
	if s == nil {
		return PreviewView{}, fmt.Errorf("BookingService is nil")
	}

	input := params.Input
	vErr := &ValidationError{}
	spec, opts, tmpl := s.buildGeneration(ctx, input, vErr)
	addonPrices, err := s.addonPrices(ctx, input, vErr)
	if err != nil {
		return PreviewView{}, err
	}
	if vErr.HasErrors() {
		return PreviewView{}, vErr
	}

	// A missing anchor yields an empty projection, not an error.
	instances, err := recurrence.Expand(spec, tmpl, opts)
	if err != nil {
		return PreviewView{}, err
	}

	recurring := spec.Frequency != recurrence.FrequencyNone && len(instances) > 0
	breakdown := pricing.Total(instances, recurring, tmpl, input.AddonIDs, addonPrices, discountFromInput(input.Discount))

	view := PreviewView{Pricing: pricingView(breakdown)}
	for _, in := range instances {
		view.Visits = append(view.Visits, visitViewFromInstance(in))
	}
	return view, nil
}

func (s *BookingService) expand(spec recurrence.Spec, opts recurrence.Options, tmpl visit.Template, input SeriesInput) ([]visit.Instance, error) {
	if spec.Frequency == recurrence.FrequencyNone {
		single, err := s.singleInstance(spec, tmpl)
		if err != nil {
			return nil, err
		}
		return []visit.Instance{single}, nil
	}

	proj := series.NewProjection()
	if err := proj.Regenerate(spec, tmpl, opts, false); err != nil {
		return nil, err
	}
	instances := proj.Instances()
	if len(instances) == 0 {
		vErr := &ValidationError{}
		vErr.add("anchor_date", "anchor date and time are required")
		return nil, vErr
	}
	return instances, nil
}

func (s *BookingService) singleInstance(spec recurrence.Spec, tmpl visit.Template) (visit.Instance, error) {
	if spec.AnchorDate.IsZero() || spec.AnchorTime == "" {
		vErr := &ValidationError{}
		vErr.add("anchor_date", "anchor date and time are required")
		return visit.Instance{}, vErr
	}
	return visit.Instance{
		ID:              visit.NewDraftID(),
		Date:            visit.DateOnly(spec.AnchorDate),
		Time:            spec.AnchorTime,
		ServiceID:       tmpl.ServiceID,
		Price:           tmpl.Price,
		DurationMinutes: tmpl.DurationMinutes,
		PayRate:         tmpl.PayRate,
		AddonIDs:        visit.CopyAddonIDs(tmpl.AddonIDs),
		Assignments:     visit.CopyAssignments(tmpl.Assignments),
	}, nil
}

// currentProjection decides which in-memory instance list the save
// reconciles: the posted visit list when present, the persisted instances
// when the recurrence parameters are unchanged, or a wholesale
// regeneration when they changed.
func (s *BookingService) currentProjection(input SeriesInput, spec recurrence.Spec, opts recurrence.Options, tmpl visit.Template, record persistence.SeriesRecord, persisted []visit.Instance) ([]visit.Instance, error) {
	if len(input.Visits) > 0 {
		current := make([]visit.Instance, 0, len(input.Visits))
		for i, v := range input.Visits {
			in, err := instanceFromVisitInput(v)
			if err != nil {
				vErr := &ValidationError{}
				vErr.add(fmt.Sprintf("visits[%d]", i), err.Error())
				return nil, vErr
			}
			current = append(current, in)
		}
		return current, nil
	}

	if !recurrenceChanged(record.Parent, spec) {
		return persisted, nil
	}

	instances, err := s.expand(spec, opts, tmpl, input)
	if err != nil {
		return nil, err
	}
	// The anchor keeps its persisted identity across regeneration.
	instances[0].ID = record.Parent.ID
	return instances, nil
}

func recurrenceChanged(parent persistence.Booking, spec recurrence.Spec) bool {
	storedRule := ""
	if parent.RecurrenceRule != nil {
		storedRule = *parent.RecurrenceRule
	}
	storedFreq, err := recurrence.ParseRule(storedRule)
	if err != nil {
		return true
	}
	if storedFreq != spec.Frequency {
		return true
	}
	if parent.RecurrenceCount != spec.Count {
		return true
	}
	if !visit.DateOnly(parent.StartDate).Equal(visit.DateOnly(spec.AnchorDate)) {
		return true
	}
	return parent.StartDate.UTC().Format("15:04") != spec.AnchorTime
}

// applyFromPlan resolves draft identifiers and converts the pure plan into
// the persistence write set. When parentID is empty the first insert
// becomes the series anchor; every other insert is parented under it. New
// ids are minted here, before any nested link write references them.
func (s *BookingService) applyFromPlan(plan series.Plan, parentID string, existingParent *persistence.Booking, companyID, customerID string, spec recurrence.Spec, actualCount int, addonPrices map[string]float64) (persistence.SeriesApply, string, error) {
	var apply persistence.SeriesApply

	rule := recurrence.SerializeRule(spec.Frequency)
	parentUpdated := false

	for _, in := range plan.Inserts {
		realID := s.idGenerator()
		isParent := parentID == ""
		if isParent {
			parentID = realID
		}

		row, err := s.bookingRow(in, realID, companyID, customerID, parentID, isParent, rule, actualCount)
		if err != nil {
			return persistence.SeriesApply{}, "", err
		}
		apply.InsertBookings = append(apply.InsertBookings, row)

		for _, addonID := range in.AddonIDs {
			apply.InsertAddons = append(apply.InsertAddons, persistence.BookingAddon{
				BookingID:   realID,
				AddonID:     addonID,
				PriceAtTime: addonPrices[addonID],
				Quantity:    1,
			})
		}
		for _, a := range in.Assignments {
			apply.InsertAssignments = append(apply.InsertAssignments, persistence.BookingAssignment{
				BookingID: realID,
				MemberID:  a.MemberID,
				PayRate:   a.PayRate,
				Status:    assignmentStatusDefault,
			})
		}
	}

	for _, in := range plan.Updates {
		isParent := in.ID == parentID
		row, err := s.bookingRow(in, in.ID, companyID, customerID, parentID, isParent, rule, actualCount)
		if err != nil {
			return persistence.SeriesApply{}, "", err
		}
		apply.UpdateBookings = append(apply.UpdateBookings, row)
		if isParent {
			parentUpdated = true
		}
	}

	// A count or rule change must land on the anchor row even when its
	// own visit fields did not change.
	if existingParent != nil && !parentUpdated {
		storedRule := ""
		if existingParent.RecurrenceRule != nil {
			storedRule = *existingParent.RecurrenceRule
		}
		if storedRule != rule || existingParent.RecurrenceCount != actualCount {
			row := *existingParent
			if rule == "" {
				row.RecurrenceRule = nil
			} else {
				row.RecurrenceRule = &rule
			}
			row.RecurrenceCount = actualCount
			apply.UpdateBookings = append(apply.UpdateBookings, row)
		}
	}

	apply.DeleteBookingIDs = plan.DeleteIDs

	for bookingID, diff := range plan.AddonDiffs {
		for _, addonID := range diff.Add {
			apply.InsertAddons = append(apply.InsertAddons, persistence.BookingAddon{
				BookingID:   bookingID,
				AddonID:     addonID,
				PriceAtTime: addonPrices[addonID],
				Quantity:    1,
			})
		}
		for _, addonID := range diff.Remove {
			apply.DeleteAddons = append(apply.DeleteAddons, persistence.BookingAddonKey{
				BookingID: bookingID,
				AddonID:   addonID,
			})
		}
	}

	for bookingID, diff := range plan.AssignmentDiffs {
		for _, a := range diff.Add {
			apply.InsertAssignments = append(apply.InsertAssignments, persistence.BookingAssignment{
				BookingID: bookingID,
				MemberID:  a.MemberID,
				PayRate:   a.PayRate,
				Status:    assignmentStatusDefault,
			})
		}
		for _, a := range diff.Update {
			apply.UpdateAssignments = append(apply.UpdateAssignments, persistence.BookingAssignment{
				BookingID: bookingID,
				MemberID:  a.MemberID,
				PayRate:   a.PayRate,
				Status:    assignmentStatusDefault,
			})
		}
		for _, memberID := range diff.RemoveMemberIDs {
			apply.DeleteAssignments = append(apply.DeleteAssignments, persistence.BookingAssignmentKey{
				BookingID: bookingID,
				MemberID:  memberID,
			})
		}
	}

	return apply, parentID, nil
}

func (s *BookingService) bookingRow(in visit.Instance, id, companyID, customerID, parentID string, isParent bool, rule string, actualCount int) (persistence.Booking, error) {
	start, err := combineDateTime(in.Date, in.Time)
	if err != nil {
		return persistence.Booking{}, err
	}

	row := persistence.Booking{
		ID:              id,
		CompanyID:       companyID,
		CustomerID:      customerID,
		RecurrenceCount: 1,
		StartDate:       start,
		EndDate:         start.Add(time.Duration(in.DurationMinutes) * time.Minute),
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		ServiceID:       in.ServiceID,
		CleanerPayRate:  in.PayRate,
	}

	if isParent {
		if rule != "" {
			row.RecurrenceRule = &rule
		}
		// The persisted count is the actual instance count, which may be
		// below the requested occurrence count after manual removals.
		row.RecurrenceCount = actualCount
	} else {
		parent := parentID
		row.ParentBookingID = &parent
	}

	return row, nil
}

func (s *BookingService) buildGeneration(ctx context.Context, input SeriesInput, vErr *ValidationError) (recurrence.Spec, recurrence.Options, visit.Template) {
	spec := recurrence.Spec{
		Count:      input.OccurrenceCount,
		AnchorTime: strings.TrimSpace(input.AnchorTime),
	}

	freq, ok := frequencyFromString(input.Frequency)
	if !ok {
		vErr.add("frequency", "unsupported frequency")
	}
	spec.Frequency = freq
	if freq != recurrence.FrequencyNone && spec.Count < 1 {
		vErr.add("occurrence_count", "occurrence count must be at least 1")
	}

	if anchor := strings.TrimSpace(input.AnchorDate); anchor != "" {
		parsed, err := visit.ParseDate(anchor)
		if err != nil {
			vErr.add("anchor_date", "must be a valid date (YYYY-MM-DD)")
		} else {
			spec.AnchorDate = parsed
		}
	}
	if spec.AnchorTime != "" && !validHHMM(spec.AnchorTime) {
		vErr.add("anchor_time", "must be HH:MM")
	}

	tmpl := visit.Template{
		ServiceID:       input.ServiceID,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		PayRate:         input.PayRate,
		StartTime:       spec.AnchorTime,
		AddonIDs:        input.AddonIDs,
		Assignments:     assignmentsFromInput(input.Assignments),
	}

	var opts recurrence.Options
	if input.SplitService != nil {
		split := recurrence.SplitService{
			Enabled:          true,
			ServiceID:        input.SplitService.ServiceID,
			OverridePrice:    input.SplitService.Price,
			OverrideDuration: input.SplitService.DurationMinutes,
		}
		if s.services != nil && input.SplitService.ServiceID != "" {
			secondary, err := s.services.GetService(ctx, input.SplitService.ServiceID)
			if err != nil {
				if errors.Is(err, persistence.ErrNotFound) {
					vErr.add("split_service", "recurrence service does not exist")
				}
			} else {
				split.ServiceDefaultPrice = secondary.Price
				split.ServiceDefaultDuration = secondary.DurationMinutes
			}
		}
		opts.Split = split
	}

	if s.services != nil && input.ServiceID != "" {
		if _, err := s.services.GetService(ctx, input.ServiceID); errors.Is(err, persistence.ErrNotFound) {
			vErr.add("service_id", "service does not exist")
		}
	}

	if input.Discount != nil {
		switch visit.DiscountKind(input.Discount.Kind) {
		case visit.DiscountNone, visit.DiscountFixed, visit.DiscountPercent:
		default:
			vErr.add("discount", "discount kind must be fixed or percent")
		}
		if input.Discount.Value < 0 {
			vErr.add("discount", "discount value cannot be negative")
		}
	}

	return spec, opts, tmpl
}

// addonPrices resolves the addon catalog into an id-price map and flags
// any referenced addon id that does not exist.
func (s *BookingService) addonPrices(ctx context.Context, input SeriesInput, vErr *ValidationError) (map[string]float64, error) {
	prices := make(map[string]float64)
	if s.addons == nil {
		return prices, nil
	}

	catalog, err := s.addons.ListAddons(ctx)
	if err != nil {
		return nil, err
	}
	for _, addon := range catalog {
		prices[addon.ID] = addon.Price
	}

	referenced := append([]string{}, input.AddonIDs...)
	for _, v := range input.Visits {
		referenced = append(referenced, v.AddonIDs...)
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, id := range referenced {
		if _, ok := prices[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	if len(missing) > 0 {
		vErr.add("addons", fmt.Sprintf("unknown addon ids: %s", strings.Join(missing, ", ")))
	}

	return prices, nil
}

func (s *BookingService) loadView(ctx context.Context, parentID string, discount *DiscountInput) (SeriesView, error) {
	record, err := s.bookings.GetSeries(ctx, parentID)
	if err != nil {
		return SeriesView{}, mapBookingRepoError(err)
	}
	return s.viewFromRecord(ctx, record, discount)
}

func (s *BookingService) viewFromRecord(ctx context.Context, record persistence.SeriesRecord, discount *DiscountInput) (SeriesView, error) {
	instances := instancesFromRecord(record)

	view := SeriesView{
		ID:              record.Parent.ID,
		CustomerID:      record.Parent.CustomerID,
		RecurrenceCount: record.Parent.RecurrenceCount,
	}
	if record.Parent.RecurrenceRule != nil {
		view.RecurrenceRule = *record.Parent.RecurrenceRule
	}

	for _, in := range instances {
		view.Visits = append(view.Visits, visitViewFromInstance(in))
	}

	prices := make(map[string]float64)
	if s.addons != nil {
		if catalog, err := s.addons.ListAddons(ctx); err == nil {
			for _, addon := range catalog {
				prices[addon.ID] = addon.Price
			}
		}
	}

	// The top-level addon selection mirrors the anchor's set; it is a
	// display convenience, never a second source of truth.
	selected := []string(nil)
	if len(instances) > 0 {
		selected = instances[0].AddonIDs
	}

	recurring := view.RecurrenceRule != ""
	tmpl := visit.Template{Price: record.Parent.Price}
	breakdown := pricing.Total(instances, recurring, tmpl, selected, prices, discountFromInput(discount))
	view.Pricing = pricingView(breakdown)

	return view, nil
}

func instancesFromRecord(record persistence.SeriesRecord) []visit.Instance {
	rows := record.Bookings()
	instances := make([]visit.Instance, 0, len(rows))
	for _, row := range rows {
		in := visit.Instance{
			ID:              row.ID,
			Date:            visit.DateOnly(row.StartDate),
			Time:            row.StartDate.UTC().Format("15:04"),
			ServiceID:       row.ServiceID,
			Price:           row.Price,
			DurationMinutes: row.DurationMinutes,
			PayRate:         row.CleanerPayRate,
		}
		for _, link := range record.Addons[row.ID] {
			in.AddonIDs = append(in.AddonIDs, link.AddonID)
		}
		in.AddonIDs = visit.CopyAddonIDs(in.AddonIDs)
		for _, link := range record.Assignments[row.ID] {
			in.Assignments = append(in.Assignments, visit.Assignment{
				MemberID: link.MemberID,
				PayRate:  link.PayRate,
			})
		}
		instances = append(instances, in)
	}
	return instances
}

func instanceFromVisitInput(v VisitInput) (visit.Instance, error) {
	date, err := visit.ParseDate(v.Date)
	if err != nil {
		return visit.Instance{}, fmt.Errorf("invalid date")
	}
	if !validHHMM(v.Time) {
		return visit.Instance{}, fmt.Errorf("invalid time")
	}
	if v.DurationMinutes <= 0 {
		return visit.Instance{}, fmt.Errorf("duration must be positive")
	}

	id := v.ID
	if id == "" {
		id = visit.NewDraftID()
	}

	return visit.Instance{
		ID:              id,
		Date:            date,
		Time:            v.Time,
		ServiceID:       v.ServiceID,
		Price:           v.Price,
		DurationMinutes: v.DurationMinutes,
		PayRate:         v.PayRate,
		AddonIDs:        visit.CopyAddonIDs(v.AddonIDs),
		Assignments:     assignmentsFromInput(v.Assignments),
	}, nil
}

func assignmentsFromInput(inputs []AssignmentInput) []visit.Assignment {
	if len(inputs) == 0 {
		return nil
	}
	out := make([]visit.Assignment, 0, len(inputs))
	for _, a := range inputs {
		if a.MemberID == "" {
			continue
		}
		out = append(out, visit.Assignment{
			MemberID:    a.MemberID,
			PayRate:     a.PayRate,
			DisplayName: a.DisplayName,
		})
	}
	return out
}

func visitViewFromInstance(in visit.Instance) VisitView {
	v := VisitView{
		ID:              in.ID,
		Date:            visit.FormatDate(in.Date),
		Time:            in.Time,
		ServiceID:       in.ServiceID,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		PayRate:         in.PayRate,
		AddonIDs:        visit.CopyAddonIDs(in.AddonIDs),
	}
	for _, a := range in.Assignments {
		v.Assignments = append(v.Assignments, AssignmentView{
			MemberID:    a.MemberID,
			PayRate:     a.PayRate,
			DisplayName: a.DisplayName,
		})
	}
	return v
}

func discountFromInput(input *DiscountInput) visit.Discount {
	if input == nil {
		return visit.Discount{}
	}
	return visit.Discount{
		Kind:   visit.DiscountKind(input.Kind),
		Value:  input.Value,
		Reason: input.Reason,
	}
}

func pricingView(b pricing.Breakdown) PricingView {
	return PricingView{
		InstancesTotal: b.InstancesTotal,
		AddonsPerVisit: b.AddonsPerVisit,
		VisitCount:     b.VisitCount,
		Subtotal:       b.Subtotal,
		DiscountAmount: b.DiscountAmount,
		Total:          b.Total,
	}
}

func validateSeriesCore(input SeriesInput, vErr *ValidationError) {
	if strings.TrimSpace(input.CustomerID) == "" {
		vErr.add("customer_id", "customer is required")
	}
	if strings.TrimSpace(input.ServiceID) == "" {
		vErr.add("service_id", "service is required")
	}
	if input.Price < 0 {
		vErr.add("price", "price cannot be negative")
	}
	if input.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration must be positive")
	}
	if strings.TrimSpace(input.AnchorDate) == "" {
		vErr.add("anchor_date", "anchor date is required")
	}
	if strings.TrimSpace(input.AnchorTime) == "" {
		vErr.add("anchor_time", "anchor time is required")
	}
}

func frequencyFromString(s string) (recurrence.Frequency, bool) {
	switch recurrence.Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case recurrence.FrequencyNone:
		return recurrence.FrequencyNone, true
	case recurrence.FrequencyDaily:
		return recurrence.FrequencyDaily, true
	case recurrence.FrequencyWeekly:
		return recurrence.FrequencyWeekly, true
	case recurrence.FrequencyBiweekly:
		return recurrence.FrequencyBiweekly, true
	case recurrence.FrequencyMonthly:
		return recurrence.FrequencyMonthly, true
	default:
		return recurrence.FrequencyNone, false
	}
}

func validHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func combineDateTime(date time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("visits", "visit does not satisfy storage constraints")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("references", "related records are missing")
		return vErr
	}
	return err
}
