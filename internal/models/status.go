package models

// ApplicationStatus is the closed set of lifecycle states for a JobApplication.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusSeen      ApplicationStatus = "seen"
	StatusInterview ApplicationStatus = "interview"
	StatusRejected  ApplicationStatus = "rejected"
	StatusGhosted   ApplicationStatus = "ghosted"
)

// Valid reports whether s is one of the five known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusSeen, StatusInterview, StatusRejected, StatusGhosted:
		return true
	}
	return false
}

// CanTransitionTo enforces forward-only status movement:
// "seen" never overwrites "interview" or "rejected", and "ghosted"
// only applies to applications still sitting in "applied".
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case StatusApplied:
		return true
	case StatusSeen:
		return next == StatusInterview || next == StatusRejected
	case StatusGhosted:
		// a late employer response un-ghosts the application
		return next == StatusInterview || next == StatusRejected
	case StatusInterview:
		return next == StatusRejected
	default:
		return false
	}
}

// LocationPreference mirrors the intake enum for where a user wants to work.
type LocationPreference string

const (
	LocationRemote LocationPreference = "remote"
	LocationHybrid LocationPreference = "hybrid"
	LocationOnsite LocationPreference = "onsite"
)

func (l LocationPreference) Valid() bool {
	switch l {
	case LocationRemote, LocationHybrid, LocationOnsite:
		return true
	}
	return false
}
