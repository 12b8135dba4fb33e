package bookings

type Status string

const (
	// StatusPending - submitted, awaiting a manager's decision
	StatusPending Status = "PENDING"
	// StatusApproved - slot granted; the linked event is open
	StatusApproved Status = "APPROVED"
	// StatusRejected - slot denied, manually or by a conflict at approval time
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
