package contract

import (
	"context"
	"reflect"
)

// Worker is a long-running task driven by its context. Workers do not
// protect themselves against panics; the Supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerName returns the type name of the worker for logging and
// supervision, avoiding manual naming in the Worker interface.
func WorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
