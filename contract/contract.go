//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"tchat/domain"
)

// ConnHandle is one accepted connection seen as a line-oriented pipe.
// SendLine must be safe for concurrent use: the router and the owning
// session may both hold a handle obtained from a registry snapshot.
type ConnHandle interface {
	SendLine(line string) error
	ReadLine() (string, error)
	Close() error
	RemoteAddr() string
}

// Registry is the single source of truth for who is online, and for the
// accepted connections still negotiating a name.
type Registry interface {
	TrackPending(handle ConnHandle) error
	Discard(handle ConnHandle)
	TryRegister(name string, handle ConnHandle) error
	Unregister(name string)
	Lookup(name string) (ConnHandle, bool)
	Snapshot() []string
}

// Router resolves recipients through the registry and performs delivery.
type Router interface {
	Broadcast(text, exclude string)
	Direct(from, to, text string) domain.DeliveryResult
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging and supervision without manual naming.
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
