package ginserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rentcal/internal/app"
	"rentcal/internal/app/dto"
	"rentcal/internal/app/outbox"
	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/pricing"
	"rentcal/internal/domain/shared/money"
	ginserver "rentcal/internal/infra/http/gin"
	"rentcal/internal/infra/obs"
	"rentcal/internal/infra/storage/memory"
	"rentcal/internal/infra/validation"
)

var testNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	router *gin.Engine
	outbox *memory.Outbox
}

func newFixture(t *testing.T, limiter *ginserver.RateLimiter) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return testNow }
	calc := pricing.NewDynamicCalculator(nil, money.Must(100, "USD"), clock)
	engine := availability.NewEngine(memory.NewPropertyStore(), calc, availability.Options{Clock: clock})
	box := memory.NewOutbox()
	buses := app.NewBuses(app.Deps{
		Engine:      engine,
		Outbox:      box,
		Encoder:     outbox.JSONEventEncoder{HeadersFrom: obs.EventHeaders},
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Validator:   validation.New(),
		Clock:       clock,
	})
	h := ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: buses.Queries},
		Booking:      ginserver.BookingHandler{Commands: buses.Commands},
		Rules:        ginserver.RulesHandler{Commands: buses.Commands},
		Stream:       ginserver.StreamHandler{Source: engine},
	}
	if limiter != nil {
		h.RateLimit = limiter.Middleware()
	}
	return fixture{router: ginserver.NewRouter(nil, obs.Middleware{}, obs.HealthHandlers{}, h), outbox: box}
}

func (f fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Code         string            `json:"code"`
	Fields       map[string]string `json:"fields"`
	Restrictions []dto.Restriction `json:"restrictions"`
	Conflicts    []string          `json:"conflicts"`
}

func bookingBody(in, out string) map[string]any {
	return map[string]any{"check_in": in, "check_out": out, "guest_name": "Ada", "guests": 2}
}

func TestAvailabilityQuotesFreeStay(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/api/v1/properties/villa-1/availability?check_in=2025-06-10&check_out=2025-06-13&guests=2", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[dto.Availability](t, w)
	if !got.Available || got.Nights != 3 {
		t.Fatalf("expected available 3-night stay, got %+v", got)
	}
	if got.Pricing.Nightly.Amount != 98 || got.Pricing.Total.Amount != 353 || got.Pricing.Total.Currency != "USD" {
		t.Fatalf("unexpected pricing %+v", got.Pricing)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-10", "2025-06-13"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[struct {
		Booking dto.Booking `json:"booking"`
	}](t, w).Booking
	if created.ID == "" || created.Status != "pending" || created.Nights != 3 {
		t.Fatalf("unexpected booking %+v", created)
	}

	w = f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-12", "2025-06-14"), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlap, got %d: %s", w.Code, w.Body.String())
	}
	conflict := decode[errorBody](t, w)
	if conflict.Code != "unavailable" || len(conflict.Restrictions) == 0 || len(conflict.Conflicts) != 1 || conflict.Conflicts[0] != created.ID {
		t.Fatalf("unexpected conflict body %+v", conflict)
	}

	w = f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings/"+created.ID+"/confirm", nil, nil)
	if w.Code != http.StatusOK || decode[dto.Booking](t, w).Status != "confirmed" {
		t.Fatalf("confirm failed: %d %s", w.Code, w.Body.String())
	}
	w = f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings/"+created.ID+"/cancel", nil, nil)
	if w.Code != http.StatusOK || decode[dto.Booking](t, w).Status != "cancelled" {
		t.Fatalf("cancel failed: %d %s", w.Code, w.Body.String())
	}
	w = f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings/"+created.ID+"/cancel", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second cancel, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-12", "2025-06-14"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected dates to be free after cancel, got %d: %s", w.Code, w.Body.String())
	}

	names := []string{}
	for _, rec := range f.outbox.Pending() {
		names = append(names, rec.Name)
	}
	want := "booking.created,booking.confirmed,booking.cancelled,booking.created"
	if strings.Join(names, ",") != want {
		t.Fatalf("expected outbox %s, got %v", want, names)
	}
}

func TestCreateBookingIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	headers := map[string]string{"Idempotency-Key": "abc-123"}
	first := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-10", "2025-06-13"), headers)
	second := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-10", "2025-06-13"), headers)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected both 201, got %d and %d: %s", first.Code, second.Code, second.Body.String())
	}
	type result struct {
		Booking dto.Booking `json:"booking"`
	}
	if a, b := decode[result](t, first).Booking.ID, decode[result](t, second).Booking.ID; a != b {
		t.Fatalf("expected replayed booking, got %s and %s", a, b)
	}
	if n := len(f.outbox.Pending()); n != 1 {
		t.Fatalf("expected one recorded event, got %d", n)
	}
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		field  string
	}{
		{"missing guest name", http.MethodPost, "/api/v1/properties/villa-1/bookings",
			map[string]any{"check_in": "2025-06-10", "check_out": "2025-06-13", "guests": 2}, "guest_name"},
		{"unknown rule type", http.MethodPost, "/api/v1/properties/villa-1/rules",
			map[string]any{"type": "discount", "start": "2025-06-01", "end": "2025-06-02"}, "type"},
		{"bad date", http.MethodGet, "/api/v1/properties/villa-1/availability?check_in=10-06-2025&check_out=2025-06-13", nil, ""},
		{"reversed range", http.MethodGet, "/api/v1/properties/villa-1/availability?check_in=2025-06-13&check_out=2025-06-10", nil, ""},
		{"past check-in", http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-04-01", "2025-04-03"), ""},
		{"month out of range", http.MethodGet, "/api/v1/properties/villa-1/calendar?year=2025&month=13", nil, "month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			body := decode[errorBody](t, w)
			if body.Code != "invalid_request" {
				t.Fatalf("unexpected code %q", body.Code)
			}
			if tt.field != "" {
				if _, ok := body.Fields[tt.field]; !ok {
					t.Fatalf("expected field %s in %v", tt.field, body.Fields)
				}
			}
		})
	}
}

func TestRulesOverHTTP(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/rules",
		map[string]any{"type": "blocked", "start": "2025-06-10", "end": "2025-06-12", "reason": "maintenance"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rule := decode[dto.Rule](t, w)

	w = f.do(t, http.MethodGet, "/api/v1/properties/villa-1/availability?check_in=2025-06-11&check_out=2025-06-12", nil, nil)
	if got := decode[dto.Availability](t, w); got.Available {
		t.Fatalf("expected blocked dates to be unavailable")
	}

	w = f.do(t, http.MethodDelete, "/api/v1/properties/villa-1/rules/"+rule.ID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = f.do(t, http.MethodDelete, "/api/v1/properties/villa-1/rules/"+rule.ID, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCalendarOverHTTP(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-20", "2025-06-22"), nil)
	w := f.do(t, http.MethodGet, "/api/v1/properties/villa-1/calendar?year=2025&month=6", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cal := decode[dto.Calendar](t, w)
	if len(cal.Days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(cal.Days))
	}
	if cal.Days[19].Date != "2025-06-20" || cal.Days[19].Available || !cal.Days[21].Available {
		t.Fatalf("unexpected days %+v %+v", cal.Days[19], cal.Days[21])
	}
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	f := newFixture(t, ginserver.NewRateLimiter(0.001, 1, nil))
	first := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-10", "2025-06-13"), nil)
	second := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-07-10", "2025-07-13"), nil)
	if first.Code != http.StatusCreated || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 201 then 429, got %d and %d", first.Code, second.Code)
	}
	read := f.do(t, http.MethodGet, "/api/v1/properties/villa-1/availability?check_in=2025-06-10&check_out=2025-06-13", nil, nil)
	if read.Code != http.StatusOK {
		t.Fatalf("reads should not be limited, got %d", read.Code)
	}
}

func TestStreamForwardsSnapshots(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/properties/villa-1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	w := f.do(t, http.MethodPost, "/api/v1/properties/villa-1/bookings", bookingBody("2025-06-10", "2025-06-13"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap dto.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snap.PropertyID != "villa-1" || snap.Sequence != 1 || snap.Cause != "booking.created" || len(snap.Bookings) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
