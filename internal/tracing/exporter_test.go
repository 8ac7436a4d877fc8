package tracing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec), "line must be valid JSON: %s", scanner.Text())
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func stubSpan(name string) tracetest.SpanStub {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return tracetest.SpanStub{
		Name: name,
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		}),
		StartTime: start,
		EndTime:   start.Add(1500 * time.Microsecond),
	}
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestNewFileExporter_AppendsToExistingFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	first, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	require.NoError(t, first.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stubSpan("first").Snapshot()}))
	require.NoError(t, first.Shutdown(context.Background()))

	second, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	require.NoError(t, second.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stubSpan("second").Snapshot()}))
	require.NoError(t, second.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 2)
	require.Equal(t, "first", records[0].Name)
	require.Equal(t, "second", records[1].Name)
}

func TestFileExporter_RecordFields(t *testing.T) {
	var buf bytes.Buffer
	exporter := newWriterExporter(&buf, nil)

	stub := stubSpan(SpanRegistrySave)
	stub.Parent = trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: stub.SpanContext.TraceID(),
		SpanID:  trace.SpanID{9, 9, 9, 9, 9, 9, 9, 9},
	})
	stub.Status = sdktrace.Status{Code: codes.Error, Description: "write failed"}
	stub.Attributes = []attribute.KeyValue{
		attribute.String(AttrRegistryPath, "registry.yaml"),
		attribute.Int(AttrRuleGroups, 3),
	}
	stub.Events = []sdktrace.Event{{Name: EventRolledBack, Time: stub.StartTime}}

	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))

	var rec SpanRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "0102030405060708090a0b0c0d0e0f10", rec.TraceID)
	require.Equal(t, "0102030405060708", rec.SpanID)
	require.Equal(t, "0909090909090909", rec.ParentID)
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "write failed", rec.StatusMsg)
	require.InDelta(t, 1.5, rec.DurationMs, 0.001)
	require.Equal(t, "registry.yaml", rec.Attributes[AttrRegistryPath])
	require.EqualValues(t, 3, rec.Attributes[AttrRuleGroups])
	require.Len(t, rec.Events, 1)
	require.Equal(t, EventRolledBack, rec.Events[0].Name)
}

func TestFileExporter_ExportEmptySpans(t *testing.T) {
	var buf bytes.Buffer
	exporter := newWriterExporter(&buf, nil)

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	require.Zero(t, buf.Len())
}

func TestFileExporter_ExportAfterShutdownFails(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")

	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stubSpan("late").Snapshot()})
	require.Error(t, err)
}

func TestFileExporter_ConcurrentExports(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stubSpan("concurrent").Snapshot()})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, exporter.Shutdown(context.Background()))

	require.Len(t, readRecords(t, tracePath), 80)
}
