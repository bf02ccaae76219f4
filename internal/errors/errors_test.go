package errors

import (
	"fmt"
	"testing"
)

func TestFastPathNoTelemetry(t *testing.T) {
	t.Parallel()

	// Ensure no telemetry reporter is registered
	SetTelemetryReporter(nil)

	// Create an error - should use fast path
	err := fmt.Errorf("test error")
	ee := New(err).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}

	if ee.GetComponent() != "unknown" {
		t.Errorf("Expected component 'unknown' in fast path, got '%s'", ee.GetComponent())
	}

	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic' in fast path, got '%s'", ee.Category)
	}
}

func TestBuilderSetsMetadata(t *testing.T) {
	t.Parallel()

	ee := Newf("satellite %s not found", "LS7").
		Component("datastore").
		Category(CategoryNotFound).
		Priority(PriorityLow).
		Context("satellite_id", "LS7").
		Build()

	if ee.GetComponent() != "datastore" {
		t.Errorf("Expected component 'datastore', got '%s'", ee.GetComponent())
	}
	if ee.GetPriority() != PriorityLow {
		t.Errorf("Expected priority 'low', got '%s'", ee.GetPriority())
	}
	if got := ee.GetContext()["satellite_id"]; got != "LS7" {
		t.Errorf("Expected context satellite_id 'LS7', got '%v'", got)
	}
	if !IsNotFound(ee) {
		t.Error("Expected IsNotFound to report true")
	}
	if IsConflict(ee) {
		t.Error("Expected IsConflict to report false")
	}
}

func TestInvalidPriorityFallsBackToMedium(t *testing.T) {
	t.Parallel()

	ee := Newf("boom").Priority("urgent").Build()
	if ee.GetPriority() != PriorityMedium {
		t.Errorf("Expected priority 'medium' fallback, got '%s'", ee.GetPriority())
	}
}

func TestIsMatchesByCategory(t *testing.T) {
	t.Parallel()

	a := Newf("first").Category(CategoryConflict).Build()
	b := Newf("second").Category(CategoryConflict).Build()

	if !Is(a, b) {
		t.Error("Expected enhanced errors with matching categories to satisfy Is")
	}
}

func TestUnwrapPreservesOriginal(t *testing.T) {
	t.Parallel()

	original := NewStd("original failure")
	ee := New(fmt.Errorf("wrapped: %w", original)).Build()

	if !Is(ee, original) {
		t.Error("Expected Is to find the original error through the wrap chain")
	}
}
