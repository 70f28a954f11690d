package board

// Op names one kind of request the board issues.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Loading holds one independent in-flight flag per operation kind.
// Flags are set and cleared, not counted.
type Loading struct {
	Fetch  bool
	Create bool
	Update bool
	Delete bool
}

func (l *Loading) set(op Op, v bool) {
	switch op {
	case OpFetch:
		l.Fetch = v
	case OpCreate:
		l.Create = v
	case OpUpdate:
		l.Update = v
	case OpDelete:
		l.Delete = v
	}
}

// Get reports the flag for op.
func (l Loading) Get(op Op) bool {
	switch op {
	case OpFetch:
		return l.Fetch
	case OpCreate:
		return l.Create
	case OpUpdate:
		return l.Update
	case OpDelete:
		return l.Delete
	}
	return false
}

// Any reports whether some request is in flight.
func (l Loading) Any() bool {
	return l.Fetch || l.Create || l.Update || l.Delete
}
