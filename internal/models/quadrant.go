package models

type Quadrant string

const (
	UrgentImportant       Quadrant = "urgent_important"
	UrgentNotImportant    Quadrant = "urgent_not_important"
	NotUrgentImportant    Quadrant = "not_urgent_important"
	NotUrgentNotImportant Quadrant = "not_urgent_not_important"
)

// Quadrants lists the four quadrants in display order.
var Quadrants = []Quadrant{
	UrgentImportant,
	UrgentNotImportant,
	NotUrgentImportant,
	NotUrgentNotImportant,
}

func (q Quadrant) Valid() bool {
	switch q {
	case UrgentImportant, UrgentNotImportant, NotUrgentImportant, NotUrgentNotImportant:
		return true
	default:
		return false
	}
}

// TasksByQuadrant groups tasks per quadrant. Values built by Bucket or
// NewTasksByQuadrant always carry all four keys.
type TasksByQuadrant map[Quadrant][]Task

func NewTasksByQuadrant() TasksByQuadrant {
	tbq := make(TasksByQuadrant, len(Quadrants))
	for _, q := range Quadrants {
		tbq[q] = make([]Task, 0)
	}
	return tbq
}

// Bucket partitions tasks by quadrant in a single stable pass. Tasks with an
// unknown quadrant are dropped.
func Bucket(tasks []Task) TasksByQuadrant {
	tbq := NewTasksByQuadrant()
	for _, task := range tasks {
		if !task.Quadrant.Valid() {
			continue
		}
		tbq[task.Quadrant] = append(tbq[task.Quadrant], task)
	}
	return tbq
}

// Flatten returns every task in quadrant display order.
func (tbq TasksByQuadrant) Flatten() []Task {
	tasks := make([]Task, 0, tbq.Len())
	for _, q := range Quadrants {
		tasks = append(tasks, tbq[q]...)
	}
	return tasks
}

func (tbq TasksByQuadrant) Len() int {
	n := 0
	for _, q := range Quadrants {
		n += len(tbq[q])
	}
	return n
}

// Clone returns a deep copy, filling in any missing quadrant keys.
func (tbq TasksByQuadrant) Clone() TasksByQuadrant {
	out := NewTasksByQuadrant()
	for _, q := range Quadrants {
		out[q] = append(out[q], tbq[q]...)
	}
	return out
}
