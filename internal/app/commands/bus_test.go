package commands

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type renameCommand struct{ Name string }

func (renameCommand) Key() string { return "test.rename" }

type renameHandler struct{ calls *int }

func (h renameHandler) Handle(ctx context.Context, cmd renameCommand) (string, error) {
	*h.calls++
	return "renamed " + cmd.Name, nil
}

func TestDispatchRoutesAndTypesResult(t *testing.T) {
	calls := 0
	bus := NewInMemoryBus()
	RegisterHandler(bus, renameHandler{calls: &calls})

	got, err := Dispatch[renameCommand, string](context.Background(), bus, renameCommand{Name: "villa"})
	if err != nil || got != "renamed villa" || calls != 1 {
		t.Fatalf("got %q, %v after %d calls", got, err, calls)
	}
	if _, err := Dispatch[renameCommand, int](context.Background(), bus, renameCommand{}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected ErrResultType, got %v", err)
	}
	if keys := bus.Keys(); !slices.Equal(keys, []string{"test.rename"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, err := Dispatch[renameCommand, string](context.Background(), NewInMemoryBus(), renameCommand{})
	if !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
}
