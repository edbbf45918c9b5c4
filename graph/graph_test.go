package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counterState struct {
	Count int
	Path  []string
}

func TestLinearGraph(t *testing.T) {
	g := NewStateGraph[counterState]()

	g.AddNode("first", "first step", func(ctx context.Context, s counterState) (counterState, error) {
		s.Count++
		s.Path = append(s.Path, "first")
		return s, nil
	})
	g.AddNode("second", "second step", func(ctx context.Context, s counterState) (counterState, error) {
		s.Count++
		s.Path = append(s.Path, "second")
		return s, nil
	})

	g.SetEntryPoint("first")
	g.AddEdge("first", "second")
	g.AddEdge("second", END)

	app, err := g.Compile()
	assert.NoError(t, err)

	result, err := app.Invoke(context.Background(), counterState{})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"first", "second"}, result.Path)
}

func TestConditionalLoop(t *testing.T) {
	g := NewStateGraph[counterState]()

	g.AddNode("work", "increment until 3", func(ctx context.Context, s counterState) (counterState, error) {
		s.Count++
		return s, nil
	})

	g.SetEntryPoint("work")
	g.AddConditionalEdge("work", func(ctx context.Context, s counterState) string {
		if s.Count >= 3 {
			return END
		}
		return "work"
	})

	app, err := g.Compile()
	assert.NoError(t, err)

	result, err := app.Invoke(context.Background(), counterState{})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Count)
}

func TestCompileWithoutEntryPoint(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("only", "", func(ctx context.Context, s counterState) (counterState, error) {
		return s, nil
	})

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)
}

func TestCompileUnknownEntryPoint(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.SetEntryPoint("missing")

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestMissingOutgoingEdge(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("dangling", "", func(ctx context.Context, s counterState) (counterState, error) {
		return s, nil
	})
	g.SetEntryPoint("dangling")

	app, err := g.Compile()
	assert.NoError(t, err)

	_, err = app.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}

func TestNodeErrorStopsExecution(t *testing.T) {
	g := NewStateGraph[counterState]()

	boom := errors.New("boom")
	g.AddNode("explode", "", func(ctx context.Context, s counterState) (counterState, error) {
		return s, boom
	})
	g.SetEntryPoint("explode")
	g.AddEdge("explode", END)

	app, err := g.Compile()
	assert.NoError(t, err)

	_, err = app.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "explode")
}

func TestInvokeRespectsContextCancellation(t *testing.T) {
	g := NewStateGraph[counterState]()

	ctx, cancel := context.WithCancel(context.Background())

	g.AddNode("loop", "", func(ctx context.Context, s counterState) (counterState, error) {
		s.Count++
		if s.Count == 2 {
			cancel()
		}
		return s, nil
	})
	g.SetEntryPoint("loop")
	g.AddConditionalEdge("loop", func(ctx context.Context, s counterState) string {
		return "loop"
	})

	app, err := g.Compile()
	assert.NoError(t, err)

	_, err = app.Invoke(ctx, counterState{})
	assert.ErrorIs(t, err, context.Canceled)
}
