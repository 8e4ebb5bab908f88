package model

// Availability is the tri-state status of one participant at one meeting for
// a single role.
type Availability int8

const (
	// Unavailable means the participant must not be drawn for the role.
	Unavailable Availability = -1
	// Available means the participant may be drawn for the role.
	Available Availability = 0
	// Required means the participant must fill the role at that meeting.
	Required Availability = 1
)

func (a Availability) String() string {
	switch a {
	case Unavailable:
		return "unavailable"
	case Available:
		return "available"
	case Required:
		return "required"
	default:
		return "invalid"
	}
}

// Participant holds one attendee's constraints. Records are built once from
// configuration and never mutated by the scheduler; all scheduling state
// lives in the derived matrices.
type Participant struct {
	// Name is the display name used in reports.
	Name string

	// Present and Notes are the role eligibility flags.
	Present bool
	Notes   bool

	// Forbid and Force are date-list specifications (single dates and
	// inclusive ranges) naming meetings the participant cannot attend and
	// meetings they must fill their eligible role at, respectively.
	Forbid string
	Force  string
}

// AvailabilityMatrix is a dense [meeting][participant] table of Availability
// codes. Two independent instances exist per run, one per role.
type AvailabilityMatrix [][]Availability

// NewAvailabilityMatrix returns a meetings x participants matrix with every
// cell Available.
func NewAvailabilityMatrix(meetings, participants int) AvailabilityMatrix {
	m := make(AvailabilityMatrix, meetings)
	for i := range m {
		m[i] = make([]Availability, participants)
	}
	return m
}

// Clone returns a deep copy. The assignment engine snapshots the resolved
// matrices before mutating them.
func (m AvailabilityMatrix) Clone() AvailabilityMatrix {
	out := make(AvailabilityMatrix, len(m))
	for i, row := range m {
		out[i] = make([]Availability, len(row))
		copy(out[i], row)
	}
	return out
}

// AssignmentMatrix is a dense [meeting][participant] table; true means the
// participant fills the role at that meeting.
type AssignmentMatrix [][]bool

func NewAssignmentMatrix(meetings, participants int) AssignmentMatrix {
	m := make(AssignmentMatrix, meetings)
	for i := range m {
		m[i] = make([]bool, participants)
	}
	return m
}

// RowCount returns the number of participants assigned at meeting d.
func (m AssignmentMatrix) RowCount(d int) int {
	n := 0
	for _, set := range m[d] {
		if set {
			n++
		}
	}
	return n
}

// Totals returns the per-participant assignment counts across all meetings.
func (m AssignmentMatrix) Totals() []int {
	if len(m) == 0 {
		return nil
	}
	totals := make([]int, len(m[0]))
	for _, row := range m {
		for p, set := range row {
			if set {
				totals[p]++
			}
		}
	}
	return totals
}
