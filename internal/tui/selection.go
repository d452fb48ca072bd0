package tui

// Selection is a wrap-around cursor over a list of length items.
// With zero items nothing is selected.
type Selection struct {
	cursor int
	length int
}

// NewSelection selects the first of length items
func NewSelection(length int) Selection {
	if length < 0 {
		length = 0
	}
	return Selection{length: length}
}

// Next advances the cursor, wrapping from the last item to the first
func (s *Selection) Next() {
	if s.length == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % s.length
}

// Prev retreats the cursor, wrapping from the first item to the last
func (s *Selection) Prev() {
	if s.length == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + s.length) % s.length
}

// Selected returns the cursor, or false when the list is empty
func (s Selection) Selected() (int, bool) {
	if s.length == 0 {
		return 0, false
	}
	return s.cursor, true
}

// Len returns the number of items
func (s Selection) Len() int {
	return s.length
}

// Resize changes the item count, clamping the cursor into range
func (s *Selection) Resize(length int) {
	if length < 0 {
		length = 0
	}
	s.length = length
	switch {
	case length == 0:
		s.cursor = 0
	case s.cursor >= length:
		s.cursor = length - 1
	}
}
