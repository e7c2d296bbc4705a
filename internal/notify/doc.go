// Package notify streams release progress to a socket.io server. Delivery is
// best effort: a notifier never fails the run it reports on.
package notify
