// Package event provides a small synchronous publish/subscribe bus.
//
// Topics are hierarchical and dot-separated ("transaction.dispatched").
// Subscription patterns may use "*" to match exactly one segment and a
// trailing "**" to match any number of remaining segments:
//
//	bus := event.NewBus()
//	sub := bus.Subscribe("transaction.*", func(ev event.Event) {
//		fmt.Println(ev.Topic)
//	})
//	defer sub.Unsubscribe()
//
// Handlers run in the publisher's goroutine, in subscription order. A
// panicking handler is recovered and reported to the bus's panic handler
// so that one faulty subscriber cannot break delivery to the others.
package event
