package chathub

import "pairlink/backend/internal/models"

// Client is the interface for one authenticated realtime connection. It
// abstracts the underlying transport so the hub can manage connection
// types uniformly and tests can substitute doubles.
type Client interface {
	// GetConnID returns the unique identifier of this connection. A user
	// with several devices or tabs holds several connections.
	GetConnID() string
	// GetUserID returns the verified identity attached at connect time.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outbound events
	// to. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel and connection.
	Close()
}
