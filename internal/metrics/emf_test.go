package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func captureFlush(t *testing.T, fn func()) map[string]interface{} {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.Len() == 0 {
		return nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse EMF output as JSON: %v\nOutput: %s", err, buf.String())
	}
	return doc
}

func TestRecorder_FlushOutput(t *testing.T) {
	functionName = "" // test isolation

	doc := captureFlush(t, func() {
		New(Namespace).
			Dimension("Stage", "analyzing").
			Duration("StageLatencyMs", 1234*time.Millisecond).
			Count("StageCount").
			Property("projectId", "prj-123").
			Flush()
	})

	awsDir, ok := doc["_aws"].(map[string]interface{})
	if !ok {
		t.Fatal("missing _aws directive in EMF output")
	}
	cw, ok := awsDir["CloudWatchMetrics"].([]interface{})
	if !ok || len(cw) != 1 {
		t.Fatalf("expected one CloudWatchMetrics entry, got %v", awsDir["CloudWatchMetrics"])
	}
	entry := cw[0].(map[string]interface{})
	if entry["Namespace"] != Namespace {
		t.Errorf("expected namespace %s, got %v", Namespace, entry["Namespace"])
	}

	if doc["Stage"] != "analyzing" {
		t.Errorf("expected Stage dimension value, got %v", doc["Stage"])
	}
	if doc["StageLatencyMs"] != float64(1234) {
		t.Errorf("expected StageLatencyMs 1234, got %v", doc["StageLatencyMs"])
	}
	if doc["StageCount"] != float64(1) {
		t.Errorf("expected StageCount 1, got %v", doc["StageCount"])
	}
	if doc["projectId"] != "prj-123" {
		t.Errorf("expected projectId property, got %v", doc["projectId"])
	}
}

func TestRecorder_EmptyFlushEmitsNothing(t *testing.T) {
	functionName = ""

	doc := captureFlush(t, func() {
		New(Namespace).Property("onlyProperties", true).Flush()
	})
	if doc != nil {
		t.Errorf("expected no output for a recorder with no metrics, got %v", doc)
	}
}

func TestNew_AutoDimension(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "TestFunction")
	initOnce.Do(func() {})
	functionName = "TestFunction"

	r := New(Namespace)
	if r.dimensions["FunctionName"] != "TestFunction" {
		t.Errorf("expected FunctionName dimension TestFunction, got %s", r.dimensions["FunctionName"])
	}
}
