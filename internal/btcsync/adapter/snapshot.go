package adapter

import (
	"errors"
	"fmt"
)

// QueueSnapshot is the persisted form of Queues.
type QueueSnapshot struct {
	InFlight  []RequestRecord
	Responses []ResponseRecord
}

// RequestRecord stores exactly one request variant.
type RequestRecord struct {
	GetSuccessors   *GetSuccessorsRequest
	SendTransaction *SendTransactionRequest
}

// ResponseRecord stores exactly one response variant.
type ResponseRecord struct {
	GetSuccessors   *GetSuccessorsResponse
	SendTransaction *SendTransactionResponse
}

var errEmptyRecord = errors.New("record holds no variant")

// Snapshot converts the queues into their persisted form. Responses keep their FIFO order.
func (q *Queues) Snapshot() QueueSnapshot {
	var s QueueSnapshot
	if q.inFlight != nil {
		s.InFlight = []RequestRecord{newRequestRecord(q.inFlight)}
	}
	for i := 0; i < q.responses.Len(); i++ {
		v, _ := q.responses.PopFront()
		resp := v.(Response)
		s.Responses = append(s.Responses, newResponseRecord(resp))
		q.responses.PushBack(resp)
	}
	return s
}

// RestoreQueues rebuilds working queues from a snapshot.
func RestoreQueues(s QueueSnapshot) (*Queues, error) {
	if len(s.InFlight) > requestCapacity {
		return nil, fmt.Errorf("snapshot holds %d in-flight requests, capacity is %d", len(s.InFlight), requestCapacity)
	}
	q := NewQueues()
	for i, rec := range s.InFlight {
		req, err := rec.Request()
		if err != nil {
			return nil, fmt.Errorf("in-flight request %d: %w", i, err)
		}
		q.inFlight = req
	}
	for i, rec := range s.Responses {
		resp, err := rec.Response()
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", i, err)
		}
		q.responses.PushBack(resp)
	}
	return q, nil
}

func newRequestRecord(r Request) RequestRecord {
	switch v := r.(type) {
	case *GetSuccessorsRequest:
		return RequestRecord{GetSuccessors: v}
	case *SendTransactionRequest:
		return RequestRecord{SendTransaction: v}
	default:
		panic(fmt.Sprintf("adapter: unhandled request type %T", r))
	}
}

func newResponseRecord(r Response) ResponseRecord {
	switch v := r.(type) {
	case *GetSuccessorsResponse:
		return ResponseRecord{GetSuccessors: v}
	case *SendTransactionResponse:
		return ResponseRecord{SendTransaction: v}
	default:
		panic(fmt.Sprintf("adapter: unhandled response type %T", r))
	}
}

// Request returns the stored request variant.
func (r RequestRecord) Request() (Request, error) {
	switch {
	case r.GetSuccessors != nil && r.SendTransaction != nil:
		return nil, errors.New("record holds more than one variant")
	case r.GetSuccessors != nil:
		return r.GetSuccessors, nil
	case r.SendTransaction != nil:
		return r.SendTransaction, nil
	default:
		return nil, errEmptyRecord
	}
}

// Response returns the stored response variant.
func (r ResponseRecord) Response() (Response, error) {
	switch {
	case r.GetSuccessors != nil && r.SendTransaction != nil:
		return nil, errors.New("record holds more than one variant")
	case r.GetSuccessors != nil:
		return r.GetSuccessors, nil
	case r.SendTransaction != nil:
		return r.SendTransaction, nil
	default:
		return nil, errEmptyRecord
	}
}
