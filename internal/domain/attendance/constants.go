package attendance

const (
	StatusPresent  = "present"
	StatusAbsent   = "absent"
	StatusRemote   = "remote"
	StatusSick     = "sick"
	StatusVacation = "vacation"

	EntityType = "attendance_record"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusRemote, StatusSick, StatusVacation}

// RequiresReason reports whether a status denotes an absence that must be
// explained in the notes.
func RequiresReason(status string) bool {
	switch status {
	case StatusAbsent, StatusSick, StatusVacation:
		return true
	}
	return false
}
