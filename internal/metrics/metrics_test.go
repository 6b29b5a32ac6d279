package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordInvitationSent()
	c.RecordInvitationSent()
	c.RecordInvitationDeliveryFailure()
	c.RecordInvitationRedeemed()
	c.RecordMemberAdded()
	c.RecordMemberRemoved()

	if got := testutil.ToFloat64(c.invitationsSent); got != 2 {
		t.Errorf("invitations_sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.invitationsFailed); got != 1 {
		t.Errorf("invitations_delivery_fail = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.invitationsRedeemed); got != 1 {
		t.Errorf("invitations_redeemed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.membersAdded); got != 1 {
		t.Errorf("members_added = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.membersRemoved); got != 1 {
		t.Errorf("members_removed = %v, want 1", got)
	}
}

func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("http_status{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("404")); got != 1 {
		t.Errorf("http_status{404} = %v, want 1", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordInvitationSent()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "pas_invitations_sent_total 1") {
		t.Errorf("metrics output missing counter: %s", w.Body.String())
	}
}
