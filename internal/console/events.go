package console

import "github.com/appengine-ltd/deadwood/internal/game"

// Events subscribes to b and forwards its events to a buffered channel.
// Events are dropped only when the buffer is saturated. The returned func
// unsubscribes; the channel is never closed.
func Events(b *game.Board, size int) (<-chan game.Event, func()) {
	if size < 1 {
		size = 64
	}
	ch := make(chan game.Event, size)
	stop := b.Subscribe(func(e game.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	return ch, stop
}
