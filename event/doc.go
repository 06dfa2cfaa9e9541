// Package event provides lightweight custom event dispatch and listening:
// named events fan out to every registered listener, immediately or after a
// delay. Delivery is best-effort; a listener that cannot keep up drops
// events rather than blocking the dispatcher.
package event
