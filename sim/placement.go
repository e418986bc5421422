package sim

// selectFirstFit returns the lowest-addressed extent that can hold size cells.
func selectFirstFit(extents []FreeExtent, size int) (FreeExtent, bool) {
	for _, ext := range extents {
		if ext.Length >= size {
			return ext, true
		}
	}
	return FreeExtent{}, false
}

// selectBestFit returns the smallest extent that can hold size cells.
// Ties go to the lowest address.
func selectBestFit(extents []FreeExtent, size int) (FreeExtent, bool) {
	best, found := FreeExtent{}, false
	for _, ext := range extents {
		if ext.Length < size {
			continue
		}
		if !found || ext.Length < best.Length {
			best, found = ext, true
		}
	}
	return best, found
}

// selectWorstFit returns the largest extent that can hold size cells.
// Ties go to the lowest address.
func selectWorstFit(extents []FreeExtent, size int) (FreeExtent, bool) {
	worst, found := FreeExtent{}, false
	for _, ext := range extents {
		if ext.Length < size {
			continue
		}
		if !found || ext.Length > worst.Length {
			worst, found = ext, true
		}
	}
	return worst, found
}

// selectNextFit scans forward from the cursor, then wraps to the region start.
//
// The forward pass only considers extents starting at or after the cursor;
// the wrap pass considers the extents starting before it. An extent that
// straddles the cursor therefore belongs to the wrap pass.
func selectNextFit(extents []FreeExtent, size int, cursor int) (FreeExtent, bool) {
	for _, ext := range extents {
		if ext.Start >= cursor && ext.Length >= size {
			return ext, true
		}
	}
	for _, ext := range extents {
		if ext.Start >= cursor {
			break
		}
		if ext.Length >= size {
			return ext, true
		}
	}
	return FreeExtent{}, false
}

// selectExtent dispatches to the contiguous strategy's selection rule.
func selectExtent(strategy Strategy, extents []FreeExtent, size int, cursor int) (FreeExtent, bool) {
	switch strategy {
	case FirstFit:
		return selectFirstFit(extents, size)
	case BestFit:
		return selectBestFit(extents, size)
	case WorstFit:
		return selectWorstFit(extents, size)
	case NextFit:
		return selectNextFit(extents, size, cursor)
	default:
		return FreeExtent{}, false
	}
}

// scatter picks exactly size free cells in ascending address order, split
// across as many extents as needed. Returns false if total free space is short.
func scatter(extents []FreeExtent, size int) ([]Extent, bool) {
	total := 0
	for _, ext := range extents {
		total += ext.Length
	}
	if total < size {
		return nil, false
	}
	var spans []Extent
	remaining := size
	for _, ext := range extents {
		if remaining == 0 {
			break
		}
		n := min(ext.Length, remaining)
		spans = append(spans, Extent{Start: ext.Start, Length: n})
		remaining -= n
	}
	return spans, true
}
