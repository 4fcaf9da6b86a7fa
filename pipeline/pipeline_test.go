package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

func TestFromSlice_Collect(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	p := FromSlice([]int{})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestFrom_Iterator(t *testing.T) {
	iter := &sliceIter[string]{items: []string{"a", "b"}}
	p := From[string](iter)
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestFromChan(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	got, err := Collect(context.Background(), FromChan(ch))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestFromChan_ContextCancel(t *testing.T) {
	ch := make(chan int) // never written, never closed
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Collect(ctx, FromChan(ch))
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Collect did not return after cancel")
	}
}

func TestMap(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	doubled := Map(p, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 4, 6}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMap_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	fail := Map(p, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	evens := Filter(p, func(n int) bool { return n%2 == 0 })
	got, err := Collect(context.Background(), evens)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestTap(t *testing.T) {
	var seen atomic.Int64
	p := Tap(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		seen.Add(int64(n))
		return nil
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("values altered: %v", got)
	}
	if seen.Load() != 6 {
		t.Errorf("side-effect sum = %d", seen.Load())
	}
}

func TestRecover_AbsorbsError(t *testing.T) {
	boom := errors.New("source failed")
	p := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return n, nil
	})

	var reported error
	recovered := Recover(p, func(err error) { reported = err })

	got, err := Collect(context.Background(), recovered)
	if err != nil {
		t.Fatalf("error should be absorbed, got %v", err)
	}
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v, want values before the failure", got)
	}
	if !errors.Is(reported, boom) {
		t.Errorf("reported = %v, want %v", reported, boom)
	}
}

func TestRecover_PropagatesCancellation(t *testing.T) {
	ch := make(chan int)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var reported error
	recovered := Recover(FromChan(ch), func(err error) { reported = err })

	_, err := Collect(ctx, recovered)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if reported != nil {
		t.Errorf("cancellation must not be reported as a source fault, got %v", reported)
	}
}

func TestBuffer(t *testing.T) {
	p := Buffer(FromSlice([]int{1, 2, 3, 4}), 2)
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestMerge_AllValues(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]int{10, 20})
	got, err := Collect(context.Background(), Merge(a, b))
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got)
	if !intSliceEqual(got, []int{1, 2, 3, 10, 20}) {
		t.Errorf("got %v", got)
	}
}

func TestMerge_RecoveredSourceDoesNotKillSibling(t *testing.T) {
	boom := errors.New("adapter died")
	failing := Map(FromSlice([]int{100}), func(_ context.Context, _ int) (int, error) {
		return 0, boom
	})
	healthy := FromSlice([]int{1, 2, 3})

	var faults atomic.Int32
	merged := Merge(
		Recover(failing, func(error) { faults.Add(1) }),
		Recover(healthy, func(error) { faults.Add(1) }),
	)

	got, err := Collect(context.Background(), merged)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got)
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("healthy source values lost: %v", got)
	}
	if faults.Load() != 1 {
		t.Errorf("faults = %d, want 1", faults.Load())
	}
}

func TestDrain(t *testing.T) {
	var sum int
	err := Drain(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		sum += n
		return nil
	}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum != 6 {
		t.Errorf("sum = %d", sum)
	}
}

func TestDrain_SinkError(t *testing.T) {
	sinkErr := errors.New("sink full")
	err := Drain(FromSlice([]int{1, 2}), func(_ context.Context, n int) error {
		if n == 2 {
			return sinkErr
		}
		return nil
	}).Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Errorf("err = %v", err)
	}
}

func TestForEach(t *testing.T) {
	var count int
	err := ForEach(context.Background(), FromSlice([]string{"a", "b"}), func(_ context.Context, _ string) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
