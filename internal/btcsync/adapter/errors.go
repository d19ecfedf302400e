package adapter

import (
	"errors"
	"fmt"
)

// ErrNoInFlightRequest is returned when a response is delivered while no request is outstanding.
var ErrNoInFlightRequest = errors.New("no in-flight request")

// QueueFullError is the only failure of PushRequest.
type QueueFullError struct {
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("adapter request queue is full (capacity %d)", e.Capacity)
}

// NonMatchingResponseError is returned when a delivered response does not answer the in-flight request.
type NonMatchingResponseError struct {
	Request  string
	Response string
}

func (e *NonMatchingResponseError) Error() string {
	return fmt.Sprintf("response %s does not match in-flight request %s", e.Response, e.Request)
}
