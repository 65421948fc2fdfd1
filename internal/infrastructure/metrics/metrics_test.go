package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordOTPRequest(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.OTPRequests.WithLabelValues("sent"))

	DefaultMetrics.RecordOTPRequest("sent")

	if got := testutil.ToFloat64(DefaultMetrics.OTPRequests.WithLabelValues("sent")); got != before+1 {
		t.Errorf("otp requests = %v, want %v", got, before+1)
	}
}

func TestMetrics_EmptyLabelIsUnknown(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.KafkaProduceErrors.WithLabelValues("unknown"))

	DefaultMetrics.RecordKafkaError("")

	if got := testutil.ToFloat64(DefaultMetrics.KafkaProduceErrors.WithLabelValues("unknown")); got != before+1 {
		t.Errorf("kafka errors = %v, want %v", got, before+1)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	DefaultMetrics.UpdateActiveConnections(3)
	DefaultMetrics.UpdatePendingLogins(2)

	if got := testutil.ToFloat64(DefaultMetrics.ActiveConnections); got != 3 {
		t.Errorf("active connections = %v, want 3", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.PendingLogins); got != 2 {
		t.Errorf("pending logins = %v, want 2", got)
	}
}

func TestMetrics_Counters(t *testing.T) {
	drops := testutil.ToFloat64(DefaultMetrics.ConnectionDrops)
	floods := testutil.ToFloat64(DefaultMetrics.FloodWaits)
	received := testutil.ToFloat64(DefaultMetrics.MessagesReceived)

	DefaultMetrics.RecordConnectionDrop()
	DefaultMetrics.RecordFloodWait()
	DefaultMetrics.RecordFloodWait()
	DefaultMetrics.RecordMessageReceived()

	if got := testutil.ToFloat64(DefaultMetrics.ConnectionDrops); got != drops+1 {
		t.Errorf("connection drops = %v, want %v", got, drops+1)
	}
	if got := testutil.ToFloat64(DefaultMetrics.FloodWaits); got != floods+2 {
		t.Errorf("flood waits = %v, want %v", got, floods+2)
	}
	if got := testutil.ToFloat64(DefaultMetrics.MessagesReceived); got != received+1 {
		t.Errorf("messages received = %v, want %v", got, received+1)
	}
}

func TestMetrics_RecordForward(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.Forwards.WithLabelValues("failed"))

	DefaultMetrics.RecordForward("failed", 0.2)
	DefaultMetrics.RecordForward("sent", -1)

	if got := testutil.ToFloat64(DefaultMetrics.Forwards.WithLabelValues("failed")); got != before+1 {
		t.Errorf("failed forwards = %v, want %v", got, before+1)
	}
}

func TestMetrics_LoginAndLimiter(t *testing.T) {
	DefaultMetrics.RecordLogin("success")
	DefaultMetrics.RecordLogin("")
	DefaultMetrics.RecordOTPRateLimited()
	DefaultMetrics.RecordLimiterStoreError()
	DefaultMetrics.RecordKafkaMessage()
}

func TestDefaultMetrics_Initialized(t *testing.T) {
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be initialized")
	}
	if GetDefaultMetrics() != DefaultMetrics {
		t.Error("GetDefaultMetrics should return the singleton")
	}
	if DefaultMetrics.OTPRequests == nil || DefaultMetrics.Forwards == nil {
		t.Error("vector metrics should not be nil")
	}
	if DefaultMetrics.KafkaProduceErrors == nil {
		t.Error("KafkaProduceErrors should not be nil")
	}
}
