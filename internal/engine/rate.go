package engine

import (
	"errors"
	"time"
)

// ErrCounterWrap indicates that a byte counter went backwards, either from
// a wrap or an interface reset.
var ErrCounterWrap = errors.New("counter wrap detected")

// ErrNoElapsed indicates two samples taken at the same instant or out of order.
var ErrNoElapsed = errors.New("zero or negative elapsed time")

// CounterSample holds raw interface byte counters at a point in time.
type CounterSample struct {
	RxBytes   uint64
	TxBytes   uint64
	Timestamp time.Time
}

// RateSample holds calculated bit rates at a point in time.
type RateSample struct {
	Timestamp time.Time
	RxRate    float64
	TxRate    float64
}

// CalculateRate computes the bit rate between two counter samples.
// Returns ErrCounterWrap if either counter has decreased.
func CalculateRate(prev, curr CounterSample) (RateSample, error) {
	elapsed := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if elapsed <= 0 {
		return RateSample{}, ErrNoElapsed
	}

	if curr.RxBytes < prev.RxBytes || curr.TxBytes < prev.TxBytes {
		return RateSample{}, ErrCounterWrap
	}

	deltaRx := curr.RxBytes - prev.RxBytes
	deltaTx := curr.TxBytes - prev.TxBytes

	return RateSample{
		Timestamp: curr.Timestamp,
		RxRate:    float64(deltaRx) * 8 / elapsed,
		TxRate:    float64(deltaTx) * 8 / elapsed,
	}, nil
}

// RxRates extracts the receive rates of a history, oldest first.
func RxRates(history []RateSample) []float64 {
	out := make([]float64, len(history))
	for i, s := range history {
		out[i] = s.RxRate
	}
	return out
}

// TxRates extracts the transmit rates of a history, oldest first.
func TxRates(history []RateSample) []float64 {
	out := make([]float64, len(history))
	for i, s := range history {
		out[i] = s.TxRate
	}
	return out
}
