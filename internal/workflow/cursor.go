package workflow

// moveCursor moves the cursor of the current list by delta without wrapping.
func (s *Session) moveCursor(delta int) {
	switch s.state {
	case StateHome:
		s.receiptCursor = step(s.receiptCursor, delta, len(s.receipts))
	case StateImport:
		s.importCursor = step(s.importCursor, delta, len(s.importList))
	case StateOcr:
		s.ocrCursor = step(s.ocrCursor, delta, len(s.ocrLines))
	case StateConvertBon:
		s.itemCursor = step(s.itemCursor, delta, len(s.draft.Items))
	case StateCategory:
		s.categoryCursor = step(s.categoryCursor, delta, len(s.categories))
	default:
	}
}

func step(cursor, delta, n int) int {
	if n == 0 {
		return -1
	}
	if cursor < 0 {
		return 0
	}
	next := cursor + delta
	if next < 0 || next >= n {
		return cursor
	}
	return next
}

// clampCursor keeps a cursor valid after the list changed size.
func clampCursor(cursor, n int) int {
	switch {
	case n == 0:
		return -1
	case cursor < 0:
		return 0
	case cursor >= n:
		return n - 1
	default:
		return cursor
	}
}

// firstCursor selects the first element of a freshly loaded list.
func firstCursor(n int) int {
	if n == 0 {
		return -1
	}
	return 0
}

func selected(cursor, n int) bool {
	return cursor >= 0 && cursor < n
}
