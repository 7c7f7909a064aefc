package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "character not found",
			expected: "NOT_FOUND: character not found",
		},
		{
			name:     "resource exhausted error",
			code:     errors.CodeResourceExhausted,
			message:  "no rage left",
			expected: "RESOURCE_EXHAUSTED: no rage left",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWithMeta() {
	err := errors.NotFound("character not found").
		WithMeta("character_id", "char-1").
		WithMeta("level", 4)

	s.Assert().Equal("char-1", err.Meta["character_id"])
	s.Assert().Equal(4, err.Meta["level"])
}

func (s *ErrorsTestSuite) TestWrap() {
	s.Run("plain error becomes internal", func() {
		baseErr := fmt.Errorf("database connection failed")
		wrapped := errors.Wrap(baseErr, "failed to load character")

		s.Assert().Equal(errors.CodeInternal, wrapped.Code)
		s.Assert().Equal("failed to load character", wrapped.Message)
		s.Assert().Equal(baseErr, wrapped.Unwrap())
	})

	s.Run("structured error keeps its code and meta", func() {
		baseErr := errors.PoolExhausted("rage")
		wrapped := errors.Wrapf(baseErr, "spend %d", 1)

		s.Assert().Equal(errors.CodeResourceExhausted, wrapped.Code)
		s.Assert().Equal("rage", wrapped.Meta[errors.MetaPoolID])
		s.Assert().True(errors.IsPoolExhausted(wrapped))
	})

	s.Run("nil stays nil", func() {
		s.Assert().Nil(errors.Wrap(nil, "ignored"))
		s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeInternal, "ignored"))
	})
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.NotFound("row missing").WithMeta("table", "characters")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeInternal, "storage failure")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("characters", wrapped.Meta["table"])

	// the copy must not alias the original map
	wrapped.WithMeta("table", "other")
	s.Assert().Equal("characters", baseErr.Meta["table"])
}

func (s *ErrorsTestSuite) TestIs() {
	err := errors.NotFoundf("character %s not found", "char-1")

	s.Assert().ErrorIs(err, errors.NotFound("anything"))
	s.Assert().NotErrorIs(err, errors.Internal("anything"))
}

func (s *ErrorsTestSuite) TestHelpers() {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "not found", err: errors.NotFound("x"), check: errors.IsNotFound},
		{name: "invalid argument", err: errors.InvalidArgumentf("bad %s", "x"), check: errors.IsInvalidArgument},
		{name: "already exists", err: errors.AlreadyExistsf("dup %s", "x"), check: errors.IsAlreadyExists},
		{name: "internal", err: errors.Internal("x"), check: errors.IsInternal},
		{name: "failed precondition", err: errors.FailedPreconditionf("x %d", 1), check: errors.IsFailedPrecondition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().True(tc.check(tc.err))
			s.Assert().True(tc.check(fmt.Errorf("outer: %w", tc.err)))
		})
	}

	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Assert().Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Assert().Nil(errors.GetMeta(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestToGRPCError() {
	s.Run("nil", func() {
		s.Assert().NoError(errors.ToGRPCError(nil))
	})

	s.Run("plain error maps to internal", func() {
		st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
		s.Require().True(ok)
		s.Assert().Equal(codes.Internal, st.Code())
	})

	s.Run("status errors pass through", func() {
		original := status.Error(codes.Unavailable, "down")
		s.Assert().Equal(original, errors.ToGRPCError(original))
	})

	s.Run("meta travels as struct details", func() {
		err := errors.Validation("asi_cap", "strength would exceed 20").
			WithMeta(errors.MetaAbilities, []string{"str"})

		st, ok := status.FromError(errors.ToGRPCError(err))
		s.Require().True(ok)
		s.Assert().Equal(codes.InvalidArgument, st.Code())
		s.Assert().Equal("strength would exceed 20", st.Message())
		s.Require().Len(st.Details(), 1)

		details, ok := st.Details()[0].(*structpb.Struct)
		s.Require().True(ok)
		s.Assert().Equal("asi_cap", details.AsMap()[errors.MetaRule])
		s.Assert().Equal([]interface{}{"str"}, details.AsMap()[errors.MetaAbilities])
	})

	s.Run("unsupported meta values are stringified", func() {
		err := errors.Internal("x").WithMeta("odd", struct{ A int }{A: 1})

		st, ok := status.FromError(errors.ToGRPCError(err))
		s.Require().True(ok)
		s.Require().Len(st.Details(), 1)
		details := st.Details()[0].(*structpb.Struct)
		s.Assert().Equal("{1}", details.AsMap()["odd"])
	})
}

func (s *ErrorsTestSuite) TestFromGRPCErrorRoundTrip() {
	original := errors.PoolExhausted("ki")

	back := errors.FromGRPCError(errors.ToGRPCError(original))

	s.Assert().True(errors.IsPoolExhausted(back))
	s.Assert().Equal("ki", errors.GetMeta(back)[errors.MetaPoolID])
	s.Assert().Equal(original.Message, errors.GetMessage(back))

	plain := fmt.Errorf("not a status")
	s.Assert().Equal(plain, errors.FromGRPCError(plain))
	s.Assert().NoError(errors.FromGRPCError(nil))
}

func (s *ErrorsTestSuite) TestCodeMappingCoversAllCodes() {
	allCodes := []errors.Code{
		errors.CodeCanceled, errors.CodeInvalidArgument, errors.CodeDeadlineExceeded,
		errors.CodeNotFound, errors.CodeAlreadyExists, errors.CodePermissionDenied,
		errors.CodeResourceExhausted, errors.CodeFailedPrecondition, errors.CodeAborted,
		errors.CodeOutOfRange, errors.CodeUnimplemented, errors.CodeInternal,
		errors.CodeUnavailable, errors.CodeDataLoss, errors.CodeUnauthenticated,
	}

	for _, code := range allCodes {
		s.Run(code.String(), func() {
			s.Assert().NotEqual(codes.Unknown, code.GRPCCode())
			back := errors.FromGRPCError(status.Error(code.GRPCCode(), "x"))
			s.Assert().Equal(code, errors.GetCode(back))
		})
	}
}
