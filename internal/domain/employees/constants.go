package employees

const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"

	EntityType = "employee"

	SearchLimit = 25

	CredentialNoticeSubject = "Your HR portal account"
)

var Statuses = []string{StatusActive, StatusOnLeave, StatusTerminated}
