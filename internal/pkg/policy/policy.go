// Package policy encodes the status state machines for offerings and their
// sessions, and the predicates that gate every mutation in the system.
// All functions are pure; callers must pass the freshest known status rather
// than a cached one.
package policy

// OfferingStatus is the lifecycle state of an extracurricular offering.
type OfferingStatus string

const (
	OfferingDraft            OfferingStatus = "DRAFT"
	OfferingOpen             OfferingStatus = "OPEN"
	OfferingEnrollmentClosed OfferingStatus = "ENROLLMENT_CLOSED"
	OfferingInProgress       OfferingStatus = "IN_PROGRESS"
	OfferingCompleted        OfferingStatus = "COMPLETED"
	OfferingCanceled         OfferingStatus = "CANCELED"
)

// SessionStatus is the lifecycle state of a single session.
type SessionStatus string

const (
	SessionOpen     SessionStatus = "OPEN"
	SessionClosed   SessionStatus = "CLOSED"
	SessionCanceled SessionStatus = "CANCELED"
)

type offeringEdge struct {
	from, to OfferingStatus
}

type sessionEdge struct {
	from, to SessionStatus
}

// offeringTransitions is the full set of allowed offering edges. CANCELED is
// reachable from every non-terminal state; COMPLETED and CANCELED are terminal.
var offeringTransitions = map[offeringEdge]bool{
	{OfferingDraft, OfferingOpen}:                  true,
	{OfferingOpen, OfferingEnrollmentClosed}:       true,
	{OfferingEnrollmentClosed, OfferingInProgress}: true,
	{OfferingInProgress, OfferingCompleted}:        true,

	{OfferingDraft, OfferingCanceled}:            true,
	{OfferingOpen, OfferingCanceled}:             true,
	{OfferingEnrollmentClosed, OfferingCanceled}: true,
	{OfferingInProgress, OfferingCanceled}:       true,
}

// sessionTransitions deliberately omits CLOSED -> OPEN: the upstream contract
// leaves reopening unspecified, so leaving CLOSED is only allowed toward
// CANCELED until the backend contract says otherwise. CANCELED is terminal.
var sessionTransitions = map[sessionEdge]bool{
	{SessionOpen, SessionClosed}:     true,
	{SessionOpen, SessionCanceled}:   true,
	{SessionClosed, SessionCanceled}: true,
}

// OfferingEditable reports whether the offering's detail fields may be edited.
func OfferingEditable(status OfferingStatus) bool {
	return status == OfferingDraft
}

// SessionEditable reports whether sessions of an offering may be created or
// edited, given the parent offering's status.
func SessionEditable(offeringStatus OfferingStatus) bool {
	return offeringStatus == OfferingOpen
}

// SessionStatusChangeable reports whether session status transitions are
// permitted, given the parent offering's status.
func SessionStatusChangeable(offeringStatus OfferingStatus) bool {
	return offeringStatus == OfferingInProgress
}

// OfferingTerminal reports whether the offering can never change state again.
func OfferingTerminal(status OfferingStatus) bool {
	return status == OfferingCompleted || status == OfferingCanceled
}

// ValidOfferingTransition reports whether from -> to is an allowed offering
// edge. Any edge not in the table is rejected.
func ValidOfferingTransition(from, to OfferingStatus) bool {
	return offeringTransitions[offeringEdge{from, to}]
}

// ValidSessionTransition reports whether from -> to is an allowed session
// edge. Any edge not in the table is rejected.
func ValidSessionTransition(from, to SessionStatus) bool {
	return sessionTransitions[sessionEdge{from, to}]
}

// KnownOfferingStatus reports whether s is one of the defined offering states.
func KnownOfferingStatus(s OfferingStatus) bool {
	switch s {
	case OfferingDraft, OfferingOpen, OfferingEnrollmentClosed,
		OfferingInProgress, OfferingCompleted, OfferingCanceled:
		return true
	}
	return false
}

// KnownSessionStatus reports whether s is one of the defined session states.
func KnownSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionOpen, SessionClosed, SessionCanceled:
		return true
	}
	return false
}
