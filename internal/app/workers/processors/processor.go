package processors

import (
	"context"
	"errors"
)

var ErrUnexpectedEvent = errors.New("unexpected event type")

type Processor interface {
	ProcessEvent(ctx context.Context, event any) error
}
