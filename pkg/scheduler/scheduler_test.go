package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var order []int
	var mu sync.Mutex

	stage := func(id int) Stage {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			return nil
		}
	}

	err := Pipeline(context.Background(), stage(0), stage(1), stage(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("stages ran out of order: %+v", order)
	}
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	var ran []int
	var mu sync.Mutex
	wantErr := errors.New("optimizing failed")

	record := func(id int, err error) Stage {
		return func(ctx context.Context) error {
			mu.Lock()
			ran = append(ran, id)
			mu.Unlock()
			return err
		}
	}

	err := Pipeline(context.Background(),
		record(0, nil),     // primary
		record(1, wantErr), // optimizing
		record(2, nil),     // wrapmark — must never run
	)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wantErr, got %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected the chain to stop after the failing stage, ran %+v", ran)
	}
}

func TestPipelineEmpty(t *testing.T) {
	if err := Pipeline(context.Background()); err != nil {
		t.Fatalf("unexpected error for an empty pipeline: %v", err)
	}
}

func TestRunBuildsRunsEveryTarget(t *testing.T) {
	var mu sync.Mutex
	completed := map[string]bool{}

	targets := make([]BuildTarget, 0, 5)
	for i := 0; i < 5; i++ {
		name := string(rune('a' + i))
		targets = append(targets, BuildTarget{
			Name: name,
			Run: func(ctx context.Context) error {
				mu.Lock()
				completed[name] = true
				mu.Unlock()
				return nil
			},
		})
	}

	if err := RunBuilds(context.Background(), 2, targets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != len(targets) {
		t.Fatalf("expected all %d targets to run, got %+v", len(targets), completed)
	}
}

func TestRunBuildsReturnsFirstErrorAndCancelsTheRest(t *testing.T) {
	wantErr := errors.New("build b failed")

	started := make(chan string, 2)
	aStarted := make(chan struct{})
	targets := []BuildTarget{
		{Name: "a", Run: func(ctx context.Context) error {
			started <- "a"
			close(aStarted)
			<-ctx.Done() // blocks until RunBuilds cancels on b's failure
			return ctx.Err()
		}},
		{Name: "b", Run: func(ctx context.Context) error {
			started <- "b"
			<-aStarted // fail only once a is in flight, so there is something to cancel
			return wantErr
		}},
	}

	err := RunBuilds(context.Background(), 2, targets)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wantErr, got %v", err)
	}
	close(started)
	var names []string
	for name := range started {
		names = append(names, name)
	}
	if len(names) != 2 {
		t.Fatalf("expected both targets to have started, got %+v", names)
	}
}

func TestRunBuildsRespectsConcurrencyCeiling(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	targets := make([]BuildTarget, 0, 10)
	for i := 0; i < 10; i++ {
		targets = append(targets, BuildTarget{
			Name: "t",
			Run: func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			},
		})
	}

	if err := RunBuilds(context.Background(), 3, targets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 3 {
		t.Fatalf("expected at most 3 targets in flight at once, saw %d", peak)
	}
}
