package entity

// Tally is a results snapshot mapping option label to vote count.
type Tally struct {
	PollName string       `json:"pollName"`
	Counts   []LabelCount `json:"counts"`
}

type LabelCount struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

func (t Tally) Count(label string) int {
	for _, c := range t.Counts {
		if c.Label == label {
			return c.Total
		}
	}
	return 0
}

func (t Tally) Total() int {
	total := 0
	for _, c := range t.Counts {
		total += c.Total
	}
	return total
}

// TallyOf derives a tally from the counts carried by a poll snapshot.
func TallyOf(p Poll) Tally {
	t := Tally{PollName: p.Name, Counts: make([]LabelCount, 0, len(p.Options))}
	for _, o := range p.Options {
		t.Counts = append(t.Counts, LabelCount{Label: o.Label, Total: o.Votes})
	}
	return t
}
