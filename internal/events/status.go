package events

type Status string

const (
	// StatusOpen - approved and open for registration
	StatusOpen Status = "OPEN"
	// StatusClosed - every seat consumed; registration rejected
	StatusClosed Status = "CLOSED"
	// StatusPending - shadow event awaiting auditorium booking approval
	StatusPending Status = "PENDING"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusPending:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// AcceptsRegistrations reports whether tickets may be issued for this status
func (s Status) AcceptsRegistrations() bool {
	return s == StatusOpen
}
