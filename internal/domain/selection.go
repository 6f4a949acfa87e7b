package domain

// SizeSelection is either Unselected or Selected(label). The zero value is
// Unselected.
type SizeSelection struct {
	label    string
	selected bool
}

// Unselected returns the empty selection.
func Unselected() SizeSelection { return SizeSelection{} }

// Selected returns a selection of label.
func Selected(label string) SizeSelection {
	return SizeSelection{label: label, selected: true}
}

// Label returns the selected label and whether a size is selected.
func (s SizeSelection) Label() (string, bool) {
	return s.label, s.selected
}

// IsSelected reports whether a size has been chosen.
func (s SizeSelection) IsSelected() bool { return s.selected }

// Is reports whether label is the selected size.
func (s SizeSelection) Is(label string) bool {
	return s.selected && s.label == label
}

func (s SizeSelection) String() string {
	if !s.selected {
		return "Unselected"
	}
	return "Selected(" + s.label + ")"
}
