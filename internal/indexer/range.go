package indexer

import "fmt"

// SlotRange is an inclusive range of slots.
type SlotRange struct {
	From uint64
	To   uint64
}

// Len returns the number of slots in the range.
func (r SlotRange) Len() uint64 {
	return r.To - r.From + 1
}

// SplitRange splits [from, to] into consecutive ranges of at most batchSize slots.
func SplitRange(from, to, batchSize uint64) ([]SlotRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to slot must be >= from slot")
	}

	var ranges []SlotRange
	for start := from; ; {
		end := to
		if to-start >= batchSize {
			end = start + batchSize - 1
		}
		ranges = append(ranges, SlotRange{From: start, To: end})
		if end == to {
			return ranges, nil
		}
		start = end + 1
	}
}
