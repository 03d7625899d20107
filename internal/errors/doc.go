// Package errors is the error taxonomy shared by every Quest Forge layer.
//
// An *Error carries a Code that maps onto a gRPC status, an optional Reason
// naming the game condition behind it, and free-form metadata:
//
//	return errors.NoActiveSession("session has no scene awaiting a choice").
//	    WithMeta("session_id", sessionID)
//
// Repositories wrap store failures with Persistence, the narrative layer
// reports provider failures with Generation or GenerationTimeout, and input
// checks go through a ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("character_name", name, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// Handlers convert with ToGRPCError; the reason survives the wire as an
// errdetails.ErrorInfo in the "questforge" domain and is recovered by
// FromGRPCError on the client side.
package errors
