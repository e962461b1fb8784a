package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wasl/pkg/requestcontext"
)

func TestNewPinsInjectedClock(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*60*60)
	fixed := time.Date(2025, 3, 1, 14, 0, 0, 0, karachi)

	var first, second time.Time
	h := New(func() time.Time { return fixed })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		second = requestcontext.Now(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, first.Equal(fixed))
	assert.Equal(t, time.UTC, first.Location())
	assert.Equal(t, first, second)
}

func TestMiddlewareUsesWallClock(t *testing.T) {
	var got time.Time
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Now(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.WithinDuration(t, time.Now(), got, time.Second)
}
