package queries

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type echoQuery struct{ Text string }

func (echoQuery) Key() string { return "test.echo" }

type lenQuery struct{ Text string }

func (lenQuery) Key() string { return "test.len" }

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, q echoQuery) (string, error) { return q.Text, nil }

type lenHandler struct{}

func (lenHandler) Handle(ctx context.Context, q lenQuery) (int, error) { return len(q.Text), nil }

func TestAskRoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, echoHandler{})
	RegisterHandler(bus, lenHandler{})

	got, err := Ask[echoQuery, string](context.Background(), bus, echoQuery{Text: "hi"})
	if err != nil || got != "hi" {
		t.Fatalf("echo: got %q, %v", got, err)
	}
	n, err := Ask[lenQuery, int](context.Background(), bus, lenQuery{Text: "four"})
	if err != nil || n != 4 {
		t.Fatalf("len: got %d, %v", n, err)
	}
	if keys := bus.Keys(); !slices.Equal(keys, []string{"test.echo", "test.len"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestAskErrors(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, echoHandler{})

	if _, err := Ask[lenQuery, int](context.Background(), bus, lenQuery{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
	if _, err := Ask[echoQuery, int](context.Background(), bus, echoQuery{Text: "x"}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected ErrResultType, got %v", err)
	}
	if _, err := Ask[echoQuery, string](context.Background(), nil, echoQuery{}); !errors.Is(err, ErrNilBus) {
		t.Fatalf("expected ErrNilBus, got %v", err)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, echoHandler{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate key")
		}
	}()
	RegisterHandler(bus, echoHandler{})
}
