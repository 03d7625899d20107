package errors

// Reason narrows a Code down to a specific game condition. Reasons travel to
// clients in the gRPC ErrorInfo detail.
type Reason string

// Game reasons
const (
	ReasonValidation           Reason = "validation"
	ReasonNoActiveSession      Reason = "no_active_session"
	ReasonInvalidAllocation    Reason = "invalid_allocation"
	ReasonSceneAlreadyResolved Reason = "scene_already_resolved"
	ReasonChoiceInFlight       Reason = "choice_in_flight"
	ReasonPersistence          Reason = "persistence"
	ReasonGenerationTimeout    Reason = "generation_timeout"
	ReasonGenerationFailed     Reason = "generation_failed"
	ReasonUnallocatedPoints    Reason = "unallocated_points"
	ReasonConcurrentUpdate     Reason = "concurrent_update"
)

// NoActiveSession is returned when an operation needs a session with a scene
// awaiting a choice and there is none.
func NoActiveSession(message string) *Error {
	return FailedPrecondition(message).WithReason(ReasonNoActiveSession)
}

// InvalidAllocation is returned when spent attribute points do not match the
// points awarded by pending level-ups.
func InvalidAllocation(message string) *Error {
	return InvalidArgument(message).WithReason(ReasonInvalidAllocation)
}

// SceneAlreadyResolved is returned for a second choice against an answered scene.
func SceneAlreadyResolved(message string) *Error {
	return Aborted(message).WithReason(ReasonSceneAlreadyResolved)
}

// ChoiceInFlight is returned while another choice for the same session resolves.
func ChoiceInFlight(message string) *Error {
	return Aborted(message).WithReason(ReasonChoiceInFlight)
}

// ConcurrentUpdate is returned when a record changed between read and write.
func ConcurrentUpdate(message string) *Error {
	return Aborted(message).WithReason(ReasonConcurrentUpdate)
}

// Persistence wraps a store failure.
func Persistence(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return WrapWithCode(err, CodeInternal, message).WithReason(ReasonPersistence)
}

// GenerationTimeout is returned when the narrative provider ran out of time
// on every attempt.
func GenerationTimeout(err error, message string) *Error {
	if err == nil {
		return DeadlineExceeded(message).WithReason(ReasonGenerationTimeout)
	}
	return WrapWithCode(err, CodeDeadlineExceeded, message).WithReason(ReasonGenerationTimeout)
}

// Generation is returned when the narrative provider failed after retries, or
// could not be called at all.
func Generation(err error, message string) *Error {
	if err == nil {
		return Unavailable(message).WithReason(ReasonGenerationFailed)
	}
	return WrapWithCode(err, CodeUnavailable, message).WithReason(ReasonGenerationFailed)
}

// GetReason extracts the reason from an error, or "" when there is none
func GetReason(err error) Reason {
	var e *Error
	if As(err, &e) {
		return e.Reason
	}
	return ""
}

// HasReason reports whether err carries the given reason
func HasReason(err error, reason Reason) bool {
	return GetReason(err) == reason
}

// IsNoActiveSession checks for the no active session reason
func IsNoActiveSession(err error) bool { return HasReason(err, ReasonNoActiveSession) }

// IsInvalidAllocation checks for the invalid allocation reason
func IsInvalidAllocation(err error) bool { return HasReason(err, ReasonInvalidAllocation) }

// IsGenerationFailure reports whether err came from the narrative provider
func IsGenerationFailure(err error) bool {
	r := GetReason(err)
	return r == ReasonGenerationFailed || r == ReasonGenerationTimeout
}
