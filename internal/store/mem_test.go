package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ Store = (*Mem)(nil)

func TestMemPutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMem()
	data := []byte("payload")

	id, err := s.Put(ctx, data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if want := HashBytes(data); id != want {
		t.Errorf("Put id = %s, want %s", id, want)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get = %q, want %q", got, data)
	}

	ok, err := s.Has(ctx, id)
	if err != nil || !ok {
		t.Errorf("Has = (%v, %v), want (true, nil)", ok, err)
	}
	if _, err := s.Get(ctx, HashBytes([]byte("absent"))); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemPutCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMem()

	data := []byte("original")
	id, err := s.Put(ctx, data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	copy(data, "XXXXXXXX")

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("original")) {
		t.Errorf("stored object aliased caller's buffer: %q", got)
	}
}

func TestMemMulti(t *testing.T) {
	ctx := context.Background()
	s := NewMem()

	objects := map[Hash][]byte{}
	for _, payload := range []string{"one", "two"} {
		objects[HashBytes([]byte(payload))] = []byte(payload)
	}
	if err := s.PutMulti(ctx, objects); err != nil {
		t.Fatalf("PutMulti failed: %v", err)
	}

	ids := make([]Hash, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	got, err := s.GetMulti(ctx, ids)
	if err != nil {
		t.Fatalf("GetMulti failed: %v", err)
	}
	if diff := cmp.Diff(objects, got); diff != "" {
		t.Errorf("GetMulti mismatch (-want +got):\n%s", diff)
	}
}

func TestMemRefs(t *testing.T) {
	s := NewMem()
	id := HashBytes([]byte("target"))

	if err := s.PutRef("main", id); err != nil {
		t.Fatalf("PutRef failed: %v", err)
	}
	got, err := s.GetRef("main")
	if err != nil {
		t.Fatalf("GetRef failed: %v", err)
	}
	if got != id {
		t.Errorf("GetRef = %s, want %s", got, id)
	}
	if _, err := s.GetRef("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRef(absent) error = %v, want ErrNotFound", err)
	}
}
