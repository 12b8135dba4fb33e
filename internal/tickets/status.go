package tickets

type Status string

const (
	// StatusBooked - seat held; counts against event capacity
	StatusBooked Status = "BOOKED"
	// StatusCancelled - released; the seat is free again
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
