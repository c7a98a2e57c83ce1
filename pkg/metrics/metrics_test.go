package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("cage_clusters")

	c.LineRead("header")
	c.LineRead("data")
	c.LineRead("data")
	c.RowConverted()
	c.RowSkipped("ShortRow")
	c.QuadsEmitted("assertion", 9)
	c.QuadsEmitted("head", 4)
	c.QuadsEmitted("assertion", 9)
	c.ObserveRow(200 * time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.linesRead.WithLabelValues("data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.linesRead.WithLabelValues("header")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsConverted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsSkipped.WithLabelValues("ShortRow")))
	assert.Equal(t, 18.0, testutil.ToFloat64(c.quads.WithLabelValues("assertion")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.rowLatency))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("assembly_report")
	b := NewCollector("assembly_report")
	a.RowConverted()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.rowsConverted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rowsConverted))
}

func TestCollector_WriteToTextfile(t *testing.T) {
	c := NewCollector("ff_expressions")
	c.RowConverted()

	path := filepath.Join(t.TempDir(), "nanoconv.prom")
	require.NoError(t, c.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `nanoconv_rows_converted_total{subtype="ff_expressions"} 1`), text)
	assert.Contains(t, text, "nanoconv_run_duration_seconds")
}

func TestTimer(t *testing.T) {
	timer := NewTimer("row")
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
	assert.Equal(t, "row", timer.Name())
}
