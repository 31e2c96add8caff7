package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/visit-scheduler/internal/application"
)

type stubBookingService struct {
	createCalled  bool
	lastPrincipal application.Principal
	lastParentID  string
	view          application.SeriesView
	preview       application.PreviewView
	err           error
}

func (s *stubBookingService) CreateSeries(ctx context.Context, params application.CreateSeriesParams) (application.SeriesView, error) {
	s.createCalled = true
	s.lastPrincipal = params.Principal
	return s.view, s.err
}

func (s *stubBookingService) UpdateSeries(ctx context.Context, params application.UpdateSeriesParams) (application.SeriesView, error) {
	s.lastPrincipal = params.Principal
	s.lastParentID = params.ParentID
	return s.view, s.err
}

func (s *stubBookingService) GetSeries(ctx context.Context, principal application.Principal, parentID string) (application.SeriesView, error) {
	s.lastPrincipal = principal
	s.lastParentID = parentID
	return s.view, s.err
}

func (s *stubBookingService) DeleteSeries(ctx context.Context, principal application.Principal, parentID string) error {
	s.lastPrincipal = principal
	s.lastParentID = parentID
	return s.err
}

func (s *stubBookingService) PreviewSeries(ctx context.Context, params application.PreviewParams) (application.PreviewView, error) {
	return s.preview, s.err
}

type stubCatalogService struct {
	services []application.ServiceView
	addons   []application.AddonView
	options  application.MemberOptions
	lastDate string
	lastTime string
	err      error
}

func (s *stubCatalogService) ListServices(ctx context.Context) ([]application.ServiceView, error) {
	return s.services, s.err
}

func (s *stubCatalogService) ListAddons(ctx context.Context) ([]application.AddonView, error) {
	return s.addons, s.err
}

func (s *stubCatalogService) MemberOptionsForSlot(ctx context.Context, date, hhmm string) (application.MemberOptions, error) {
	s.lastDate = date
	s.lastTime = hhmm
	return s.options, s.err
}

func newTestRouter(bookings *stubBookingService, catalog *stubCatalogService) http.Handler {
	return NewRouter(RouterConfig{
		Bookings: NewBookingHandler(bookings, nil),
		Catalog:  NewCatalogHandler(catalog, nil),
		Middleware: []func(http.Handler) http.Handler{
			PrincipalFromHeaders(),
		},
	})
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-ID", "company-1")
	req.Header.Set("X-Operator-ID", "operator-1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateBookingReturns201(t *testing.T) {
	t.Parallel()

	bookings := &stubBookingService{view: application.SeriesView{ID: "booking-1"}}
	router := newTestRouter(bookings, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", `{"customer_id":"customer-1"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bookings.createCalled {
		t.Fatal("service was not invoked")
	}
	if bookings.lastPrincipal.CompanyID != "company-1" {
		t.Fatalf("principal not propagated: %+v", bookings.lastPrincipal)
	}

	var view application.SeriesView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.ID != "booking-1" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateBookingBadJSON(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubBookingService{}, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateBookingUsesPathID(t *testing.T) {
	t.Parallel()

	bookings := &stubBookingService{view: application.SeriesView{ID: "booking-1"}}
	router := newTestRouter(bookings, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodPut, "/bookings/booking-1", `{"customer_id":"customer-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if bookings.lastParentID != "booking-1" {
		t.Fatalf("expected path id to reach the service, got %q", bookings.lastParentID)
	}
}

func TestValidationErrorsRenderFieldMap(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{
		"customer_id": "customer is required",
	}}
	router := newTestRouter(&stubBookingService{err: vErr}, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var payload struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Errors["customer_id"] != "customer is required" {
		t.Fatalf("field errors missing: %s", rec.Body.String())
	}
}

func TestServiceErrorsMapToStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", application.ErrUnauthorized, http.StatusForbidden},
		{"not found", application.ErrNotFound, http.StatusNotFound},
		{"conflict", application.ErrAlreadyExists, http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := newTestRouter(&stubBookingService{err: tt.err}, &stubCatalogService{})
			rec := doRequest(t, router, http.MethodGet, "/bookings/booking-1", "")
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestDeleteBookingReturns204(t *testing.T) {
	t.Parallel()

	bookings := &stubBookingService{}
	router := newTestRouter(bookings, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodDelete, "/bookings/booking-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if bookings.lastParentID != "booking-1" {
		t.Fatalf("expected delete of booking-1, got %q", bookings.lastParentID)
	}
}

func TestPreviewBooking(t *testing.T) {
	t.Parallel()

	bookings := &stubBookingService{preview: application.PreviewView{
		Pricing: application.PricingView{Total: 360},
	}}
	router := newTestRouter(bookings, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodPost, "/bookings/preview", `{"customer_id":"customer-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view application.PreviewView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Pricing.Total != 360 {
		t.Fatalf("unexpected preview body: %s", rec.Body.String())
	}
}

func TestMemberOptionsRequiresSlotParams(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubBookingService{}, &stubCatalogService{})

	rec := doRequest(t, router, http.MethodGet, "/catalog/members", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date/time, got %d", rec.Code)
	}
}

func TestMemberOptionsPassesSlot(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalogService{options: application.MemberOptions{
		Available: []application.MemberOption{{ID: "member-1"}},
	}}
	router := newTestRouter(&stubBookingService{}, catalog)

	rec := doRequest(t, router, http.MethodGet, "/catalog/members?date=2024-06-03&time=10:00", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.lastDate != "2024-06-03" || catalog.lastTime != "10:00" {
		t.Fatalf("slot not forwarded: %q %q", catalog.lastDate, catalog.lastTime)
	}

	var options application.MemberOptions
	if err := json.Unmarshal(rec.Body.Bytes(), &options); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(options.Available) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListCatalogEndpoints(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalogService{
		services: []application.ServiceView{{ID: "service-1", Name: "Deep Clean"}},
		addons:   []application.AddonView{{ID: "addon-1", Name: "Windows"}},
	}
	router := newTestRouter(&stubBookingService{}, catalog)

	rec := doRequest(t, router, http.MethodGet, "/catalog/services", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for services, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/catalog/addons", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for addons, got %d", rec.Code)
	}
}
