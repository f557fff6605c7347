package auth

const (
	SessionCookieName = "hr_portal_session"

	sessionTokenBytes = 32

	// maxUsernameAttempts bounds the base, base1, base2, ... candidates.
	maxUsernameAttempts = 1000
)
