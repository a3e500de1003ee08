package interview

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStoreSnapshotUnknown(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Snapshot("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Snapshot: err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreUpdateCreatesSession(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update("s1", func(st *State) error {
		if st.SessionID != "s1" {
			t.Errorf("SessionID = %q, want %q", st.SessionID, "s1")
		}
		st.CurrentField = "chief_complaint"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	st, err := store.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.CurrentField != "chief_complaint" {
		t.Errorf("CurrentField = %q, want %q", st.CurrentField, "chief_complaint")
	}
}

func TestMemoryStoreFailedUpdateDiscarded(t *testing.T) {
	store := NewMemoryStore()
	store.Update("s1", func(st *State) error {
		st.FieldValues["a"] = "kept"
		return nil
	})

	wantErr := errors.New("boom")
	err := store.Update("s1", func(st *State) error {
		st.FieldValues["a"] = "discarded"
		st.CompletedFields = append(st.CompletedFields, "a")
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update: err = %v, want %v", err, wantErr)
	}

	st, _ := store.Snapshot("s1")
	if st.FieldValues["a"] != "kept" {
		t.Errorf("failed update leaked: FieldValues[a] = %q", st.FieldValues["a"])
	}
	if len(st.CompletedFields) != 0 {
		t.Errorf("failed update leaked: CompletedFields = %v", st.CompletedFields)
	}
}

func TestMemoryStoreSnapshotIsCopy(t *testing.T) {
	store := NewMemoryStore()
	store.Update("s1", func(st *State) error {
		st.FieldValues["a"] = "original"
		st.CompletedFields = append(st.CompletedFields, "a")
		return nil
	})

	snap, _ := store.Snapshot("s1")
	snap.FieldValues["a"] = "mutated"
	snap.CompletedFields[0] = "z"

	st, _ := store.Snapshot("s1")
	if st.FieldValues["a"] != "original" {
		t.Error("snapshot mutation leaked into store-owned field values")
	}
	if st.CompletedFields[0] != "a" {
		t.Error("snapshot mutation leaked into store-owned completed fields")
	}
}

func TestMemoryStoreSerializesPerSession(t *testing.T) {
	store := NewMemoryStore()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Update("s1", func(st *State) error {
				st.CompletedFields = append(st.CompletedFields, fmt.Sprintf("f%d", i))
				return nil
			})
		}(i)
	}
	wg.Wait()

	st, err := store.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(st.CompletedFields) != n {
		t.Errorf("lost updates: %d completed fields, want %d", len(st.CompletedFields), n)
	}
}

func TestMemoryStoreIndependentSessions(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			store.Update(id, func(st *State) error {
				st.LastRawAnswer = id
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("s%d", i)
		st, err := store.Snapshot(id)
		if err != nil {
			t.Fatalf("Snapshot(%s): %v", id, err)
		}
		if st.LastRawAnswer != id {
			t.Errorf("session %s: LastRawAnswer = %q", id, st.LastRawAnswer)
		}
	}
}
