package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/quest-forge/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	err := errors.New(errors.CodeNotFound, "session not found")
	s.Assert().Equal("NOT_FOUND: session not found", err.Error())
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to get session")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to get session", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndReason() {
	base := errors.NoActiveSession("no scene awaiting a choice")
	wrapped := errors.Wrap(base, "make choice")

	s.Assert().Equal(errors.CodeFailedPrecondition, wrapped.Code)
	s.Assert().Equal(errors.ReasonNoActiveSession, wrapped.Reason)
	s.Assert().True(errors.IsNoActiveSession(wrapped))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "nil"))
	s.Assert().Nil(errors.Persistence(nil, "nil"))
}

func (s *ErrorsTestSuite) TestReasonConstructors() {
	testCases := []struct {
		name   string
		err    *errors.Error
		code   errors.Code
		reason errors.Reason
	}{
		{"no active session", errors.NoActiveSession("x"), errors.CodeFailedPrecondition, errors.ReasonNoActiveSession},
		{"invalid allocation", errors.InvalidAllocation("x"), errors.CodeInvalidArgument, errors.ReasonInvalidAllocation},
		{"scene already resolved", errors.SceneAlreadyResolved("x"), errors.CodeAborted, errors.ReasonSceneAlreadyResolved},
		{"choice in flight", errors.ChoiceInFlight("x"), errors.CodeAborted, errors.ReasonChoiceInFlight},
		{"persistence", errors.Persistence(fmt.Errorf("io"), "x"), errors.CodeInternal, errors.ReasonPersistence},
		{"generation timeout", errors.GenerationTimeout(fmt.Errorf("slow"), "x"), errors.CodeDeadlineExceeded, errors.ReasonGenerationTimeout},
		{"generation", errors.Generation(nil, "x"), errors.CodeUnavailable, errors.ReasonGenerationFailed},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.code, tc.err.Code)
			s.Assert().Equal(tc.reason, tc.err.Reason)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.Assert().True(errors.Is(errors.NoActiveSession("a"), errors.FailedPrecondition("b")))
	s.Assert().True(errors.Is(errors.NoActiveSession("a"), errors.NoActiveSession("b")))
	s.Assert().False(errors.Is(errors.FailedPrecondition("a"), errors.NoActiveSession("b")))
	s.Assert().False(errors.Is(errors.ChoiceInFlight("a"), errors.SceneAlreadyResolved("b")))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.NotFound("user friendly").WithMeta("session_id", "s1")
	wrapped := errors.Wrap(err, "wrapped message")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal("s1", errors.GetMeta(wrapped)["session_id"])
	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.InvalidAllocation("points do not match").WithMeta("expected", 6)

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.InvalidArgument, st.Code())
	s.Assert().Equal("points do not match", st.Message())
	s.Require().Len(st.Details(), 1)
	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	s.Require().True(ok)
	s.Assert().Equal("invalid_allocation", info.GetReason())
	s.Assert().Equal("6", info.GetMetadata()["expected"])

	back := errors.FromGRPCError(grpcErr)
	s.Assert().True(errors.IsInvalidAllocation(back))
	s.Assert().Equal("6", errors.GetMeta(back)["expected"])
}

func (s *ErrorsTestSuite) TestGRPCPlainErrors() {
	st, _ := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Assert().Equal(codes.Internal, st.Code())

	back := errors.FromGRPCError(status.Error(codes.Unauthenticated, "no token"))
	s.Assert().True(errors.IsUnauthenticated(back))
	s.Assert().Equal(errors.Reason(""), errors.GetReason(back))

	s.Assert().Nil(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	s.Assert().Equal(codes.Aborted, errors.CodeAborted.GRPCCode())
	s.Assert().Equal(codes.DeadlineExceeded, errors.CodeDeadlineExceeded.GRPCCode())
	s.Assert().Equal(codes.Unknown, errors.Code("BOGUS").GRPCCode())
}
