package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("crop", "Wheat").Info("selected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "selected", entry["msg"])
	assert.Equal(t, "Wheat", entry["crop"])
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewLogger("chatty", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestRecordLoad(t *testing.T) {
	m := NewMetricsForTesting()

	m.RecordLoad(115, 42, 30*time.Millisecond, nil)
	assert.Equal(t, 115.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues("rainfall")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues("crops")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SnapshotLoadErrors))

	m.RecordLoad(0, 0, time.Millisecond, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotLoadErrors))
}

func TestHandler_ServesTestRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	m.EmptySelections.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "samarth_empty_selections_total 1")
}
