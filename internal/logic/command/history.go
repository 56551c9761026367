package command

// History keeps every command line the user entered, oldest first.
type History struct {
	lines []string
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Add(line string) {
	h.lines = append(h.lines, line)
}

// Lines returns a copy, oldest first.
func (h *History) Lines() []string {
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}
