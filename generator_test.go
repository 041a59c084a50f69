package barb

import (
	"reflect"
	"testing"
)

func TestBuildGeneratorSequenceInt(t *testing.T) {
	seq, err := buildGeneratorSequence(int64(1), int64(2), int64(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 3, 5, 7}
	if !reflect.DeepEqual(seq, want) {
		t.Fatalf("expected %v, got %v", want, seq)
	}
}

func TestBuildGeneratorSequenceDescending(t *testing.T) {
	seq, err := buildGeneratorSequence(int64(5), int64(-1), int64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{5, 4, 3, 2}
	if !reflect.DeepEqual(seq, want) {
		t.Fatalf("expected %v, got %v", want, seq)
	}
}

func TestBuildGeneratorSequenceFloat(t *testing.T) {
	seq, err := buildGeneratorSequence(0.0, 0.5, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0.5, 1, 1.5}
	if !reflect.DeepEqual(seq, want) {
		t.Fatalf("expected %v, got %v", want, seq)
	}
}

func TestBuildGeneratorSequenceZeroStep(t *testing.T) {
	_, err := buildGeneratorSequence(int64(1), int64(0), int64(5))
	if err == nil {
		t.Fatalf("expected an error for a zero step")
	}
}

func TestBuildGeneratorSequenceMismatchedTypes(t *testing.T) {
	_, err := buildGeneratorSequence(int64(1), 0.5, int64(5))
	if err == nil {
		t.Fatalf("expected an error for mismatched bound types")
	}
}
