package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"gorm.io/gorm"

	"github.com/quillgraph/quill/internal/model"
	"github.com/quillgraph/quill/internal/store"
)

// Error codes reported in extensions.code.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeCancelled    = "CANCELLED"
	CodeTimeout      = "DEADLINE_EXCEEDED"
	CodeInternal     = "INTERNAL"
)

// presentError converts an execution error into the error reported to the client. Store
// failures that are not caused by the request are logged and reported without detail.
func (r *Resolver) presentError(ctx context.Context, err error) *gqlerror.Error {
	gqlErr := graphql.DefaultErrorPresenter(ctx, err)
	if _, ok := gqlErr.Extensions["code"]; ok {
		return gqlErr
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return withCode(gqlErr, gqlErr.Message, CodeNotFound)
	case errors.Is(err, model.ErrInvalidUUID), errors.Is(err, model.ErrInvalidMemberTypeID):
		return withCode(gqlErr, gqlErr.Message, CodeInvalidInput)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return withCode(gqlErr, fmt.Sprintf("Invalid input: %s", gqlErr.Message), CodeInvalidInput)
	case errors.Is(err, context.Canceled):
		return withCode(gqlErr, "Query cancelled", CodeCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		return withCode(gqlErr, "Query timeout exceeded", CodeTimeout)
	case gqlErr.Err == nil:
		// raised by the executor itself, such as a null in a non-null position
		return gqlErr
	}

	r.log().ErrorContext(ctx, "resolver failed", "error", err, "path", gqlErr.Path.String())
	return withCode(gqlErr, "Internal server error", CodeInternal)
}

func (r *Resolver) recoverPanic(ctx context.Context, p any) error {
	r.log().ErrorContext(ctx, "resolver panicked", "panic", p, "stack", string(debug.Stack()))
	return &gqlerror.Error{
		Message:    "internal system error",
		Extensions: map[string]any{"code": CodeInternal},
	}
}

func withCode(gqlErr *gqlerror.Error, message, code string) *gqlerror.Error {
	out := *gqlErr
	out.Message = message
	out.Extensions = map[string]any{"code": code}
	return &out
}
