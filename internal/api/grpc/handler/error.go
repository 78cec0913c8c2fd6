package handler

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/authapi"
	"github.com/dtroode/hurtle-auth/internal/model"
)

func handleError(err error) error {
	return StatusFromError(err).Err()
}

// StatusFromError converts an authentication failure into a gRPC status
// whose ErrorInfo reason is the failure kind.
func StatusFromError(err error) *status.Status {
	kind := model.KindOf(err)

	st := status.New(codeOf(kind), kind.Message())
	withDetails, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(kind),
		Domain: authapi.ErrorDomain,
	})
	if detailErr != nil {
		return st
	}
	return withDetails
}

func codeOf(kind model.Kind) codes.Code {
	switch kind {
	case model.KindAccountNotFound:
		return codes.NotFound
	case model.KindInvalidPassword, model.KindMalformed, model.KindBadSignature, model.KindExpired:
		return codes.Unauthenticated
	case model.KindWrongAuthMethod, model.KindProviderMismatch:
		return codes.FailedPrecondition
	case model.KindIdentifierTaken:
		return codes.AlreadyExists
	case model.KindInvalidInput:
		return codes.InvalidArgument
	case model.KindStorageUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
