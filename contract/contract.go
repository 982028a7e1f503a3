//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"retro-chat/domain"
	"retro-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need for
// manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound half of one connection. Consume must not block:
// a sink that cannot accept an event returns an error and the event is lost
// for that connection (best-effort delivery).
type EventSink interface {
	Consume(ctx context.Context, e event.Outbound) error
}

// Verifier checks an opaque credential and returns the identity it proves.
// Pure and stateless; it knows nothing about sessions and is consulted only
// during join.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}
