package adapter

import (
	"github.com/ef-ds/deque"
)

// requestCapacity bounds the fetcher to a single outstanding request, so requests and
// responses need no correlation identifiers.
const requestCapacity = 1

// Queues holds the outstanding request slot and the FIFO of delivered, unprocessed responses.
// The zero value is an idle, empty queue. Queues is not safe for concurrent use.
type Queues struct {
	inFlight  Request
	responses deque.Deque
}

// NewQueues returns empty queues.
func NewQueues() *Queues {
	return &Queues{}
}

// HasInFlightRequest reports whether a request is awaiting its response.
func (q *Queues) HasInFlightRequest() bool {
	return q.inFlight != nil
}

// InFlightRequest returns the outstanding request, if any.
func (q *Queues) InFlightRequest() (Request, bool) {
	return q.inFlight, q.inFlight != nil
}

// PushRequest stores req as the outstanding request. It fails without touching the queue
// when a request is already outstanding.
func (q *Queues) PushRequest(req Request) *QueueFullError {
	if q.inFlight != nil {
		return &QueueFullError{Capacity: requestCapacity}
	}
	q.inFlight = req
	return nil
}

// PushResponse delivers the answer to the outstanding request, clearing the request slot
// and appending resp to the response FIFO.
func (q *Queues) PushResponse(resp Response) error {
	if q.inFlight == nil {
		return ErrNoInFlightRequest
	}
	if reqKind, respKind := RequestKind(q.inFlight), ResponseKind(resp); reqKind != respKind {
		return &NonMatchingResponseError{Request: reqKind, Response: respKind}
	}
	q.inFlight = nil
	q.responses.PushBack(resp)
	return nil
}

// PopResponse removes and returns the oldest unprocessed response.
func (q *Queues) PopResponse() (Response, bool) {
	v, ok := q.responses.PopFront()
	if !ok {
		return nil, false
	}
	return v.(Response), true
}

// NumRequests returns the number of outstanding requests (zero or one).
func (q *Queues) NumRequests() int {
	if q.inFlight == nil {
		return 0
	}
	return 1
}

// NumResponses returns the number of delivered, unprocessed responses.
func (q *Queues) NumResponses() int {
	return q.responses.Len()
}
