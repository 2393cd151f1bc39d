package engine

import (
	"testing"
	"time"
)

func TestRingBufferAdd(t *testing.T) {
	rb := NewRingBuffer[RateSample](5)
	for i := 0; i < 3; i++ {
		rb.Add(RateSample{Timestamp: time.Now(), RxRate: float64(i)})
	}
	if rb.Len() != 3 {
		t.Errorf("expected len 3, got %d", rb.Len())
	}
}

func TestRingBufferWrap(t *testing.T) {
	rb := NewRingBuffer[RateSample](3)
	for i := 0; i < 5; i++ {
		rb.Add(RateSample{RxRate: float64(i)})
	}
	if rb.Len() != 3 {
		t.Errorf("expected len 3, got %d", rb.Len())
	}
	items := rb.All()
	if items[0].RxRate != 2 {
		t.Errorf("expected oldest item RxRate=2, got %f", items[0].RxRate)
	}
	if items[2].RxRate != 4 {
		t.Errorf("expected newest item RxRate=4, got %f", items[2].RxRate)
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer[RateSample](10)
	if rb.Len() != 0 {
		t.Error("new ring buffer should be empty")
	}
	items := rb.All()
	if len(items) != 0 {
		t.Error("All() on empty buffer should return empty slice")
	}
	if _, ok := rb.Last(); ok {
		t.Error("Last() on empty buffer should return false")
	}
}

func TestRingBufferLast(t *testing.T) {
	rb := NewRingBuffer[RateSample](5)
	rb.Add(RateSample{RxRate: 1})
	rb.Add(RateSample{RxRate: 2})
	rb.Add(RateSample{RxRate: 3})
	last, ok := rb.Last()
	if !ok {
		t.Fatal("Last() should return true for non-empty buffer")
	}
	if last.RxRate != 3 {
		t.Errorf("expected RxRate=3, got %f", last.RxRate)
	}
}

func TestNewSeriesStartsFullOfZeros(t *testing.T) {
	s := NewSeries(SeriesCapacity)
	items := s.All()
	if len(items) != SeriesCapacity {
		t.Fatalf("expected %d samples, got %d", SeriesCapacity, len(items))
	}
	for i, v := range items {
		if v != 0 {
			t.Fatalf("sample %d = %f, want 0", i, v)
		}
	}
}

func TestSeriesKeepsLastCapacityPushes(t *testing.T) {
	s := NewSeries(SeriesCapacity)
	const pushes = 150
	for i := 1; i <= pushes; i++ {
		s.Add(float64(i))
	}
	items := s.All()
	if len(items) != SeriesCapacity {
		t.Fatalf("expected %d samples, got %d", SeriesCapacity, len(items))
	}
	for i, v := range items {
		want := float64(pushes - SeriesCapacity + 1 + i)
		if v != want {
			t.Fatalf("sample %d = %f, want %f", i, v, want)
		}
	}
}

func TestSeriesPartiallyFilled(t *testing.T) {
	s := NewSeries(4)
	s.Add(7)
	s.Add(8)
	items := s.All()
	want := []float64{0, 0, 7, 8}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("got %v, want %v", items, want)
		}
	}
}
