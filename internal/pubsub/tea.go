package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener feeds a broker subscription into a Bubble Tea update loop. Each
// command from Next delivers one Event[T] as its message; handle it and call
// Next again to keep listening.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// Listen subscribes to b until ctx is cancelled.
func Listen[T any](ctx context.Context, b *Broker[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: b.Subscribe(ctx)}
}

// Next waits for the next event. The command yields nil once the context is
// cancelled or the broker is closed.
func (l *Listener[T]) Next() tea.Cmd {
	ctx, ch := l.ctx, l.ch
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}
