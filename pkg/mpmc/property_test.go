package mpmc

import (
	"sort"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestPropertyPerSenderFIFO checks that whatever order
// two concurrent senders' values interleave in, each sender's own
// subsequence must come out of the receiver strictly increasing. On
// failure spew.Sdump gives a readable dump of the captured sequence
// instead of Go's default %v rendering of a large mixed-tag slice.
func TestPropertyPerSenderFIFO(t *testing.T) {
	const n = 500

	type tagged struct {
		sender string
		value  int
	}

	tx1, rx := New[tagged](8)
	tx2 := tx1.Clone()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			require.NoError(t, tx1.Send(tagged{sender: "A", value: i}))
		}
		tx1.Close()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			require.NoError(t, tx2.Send(tagged{sender: "B", value: i}))
		}
		tx2.Close()
	}()

	var fromA, fromB []int
	for {
		v, err := rx.Recv()
		if IsCorked(err) {
			break
		}
		require.NoError(t, err)
		switch v.sender {
		case "A":
			fromA = append(fromA, v.value)
		case "B":
			fromB = append(fromB, v.value)
		}
	}
	wg.Wait()

	want := make([]int, n)
	for i := range want {
		want[i] = i
	}

	if !sort.IntsAreSorted(fromA) || len(fromA) != n {
		t.Fatalf("sender A's subsequence was not strictly increasing in full:\n%s", spew.Sdump(fromA))
	}
	if !sort.IntsAreSorted(fromB) || len(fromB) != n {
		t.Fatalf("sender B's subsequence was not strictly increasing in full:\n%s", spew.Sdump(fromB))
	}
	if diff := cmp.Diff(want, fromA); diff != "" {
		t.Fatalf("sender A's values did not equal its send sequence (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fromB); diff != "" {
		t.Fatalf("sender B's values did not equal its send sequence (-want +got):\n%s", diff)
	}
}

// TestPropertyBoundedMemory checks that pending()
// never exceeds bound, even while a fast sender races a slow receiver.
func TestPropertyBoundedMemory(t *testing.T) {
	const bound = 4
	tx, rx := New[int](bound)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			require.NoError(t, tx.Send(i))
			require.LessOrEqual(t, tx.Pending(), bound)
		}
		tx.Close()
	}()

	for i := 0; i < 200; i++ {
		_, err := rx.Recv()
		require.NoError(t, err)
		require.LessOrEqual(t, rx.Pending(), bound)
	}
	wg.Wait()
}

// TestPropertySharedReceiverPartition checks that the
// union of items received across every SharedReceiver clone equals the
// sent sequence, with no duplicate delivery.
func TestPropertySharedReceiverPartition(t *testing.T) {
	const n = 300
	tx, rx0 := New[int](4)
	sr1 := NewSharedReceiver[int](rx0)
	sr2 := sr1.Clone()
	sr3 := sr1.Clone()

	go func() {
		for i := 0; i < n; i++ {
			require.NoError(t, tx.Send(i))
		}
		tx.Close()
	}()

	var mu sync.Mutex
	var got []int
	drain := func(sr *SharedReceiver[int]) {
		for {
			v, err := sr.Recv()
			if IsCorked(err) {
				return
			}
			require.NoError(t, err)
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); drain(sr1) }()
	go func() { defer wg.Done(); drain(sr2) }()
	go func() { defer wg.Done(); drain(sr3) }()
	wg.Wait()

	sort.Ints(got)
	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("shared receiver partition did not union to the sent sequence (-want +got):\n%s", diff)
	}
}
