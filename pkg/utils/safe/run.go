package safe

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Run executes handler synchronously and turns a panic into a returned error
//
// Behavior:
//   - Errors returned by handler are passed through unchanged
//   - A panic is recovered, logged with its stack and returned as an error
//     whose message is the panic value
func Run(ctx context.Context, handler func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			ctxlog.From(ctx).Error("panic in handler",
				"recover", r,
				"stack", string(stack))
			err = goerr.New(fmt.Sprintf("%v", r), goerr.V("stack", string(stack)))
		}
	}()

	return handler(ctx)
}
