package glip

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiff(t *testing.T) {
	ctx := context.Background()

	flat := func(entries ...TreeEntry) func(t *testing.T, s Store) *Tree {
		return func(t *testing.T, s Store) *Tree {
			t.Helper()
			tree := NewTree()
			for _, e := range entries {
				mustInsert(t, tree, e)
			}
			return tree
		}
	}
	nested := func(dir string, entries ...TreeEntry) func(t *testing.T, s Store) *Tree {
		return func(t *testing.T, s Store) *Tree {
			t.Helper()
			sub := NewTree()
			for _, e := range entries {
				mustInsert(t, sub, e)
			}
			subID, err := putTree(context.Background(), s, sub)
			if err != nil {
				t.Fatalf("putTree failed: %v", err)
			}
			root := NewTree()
			mustInsert(t, root, TreeEntry{Mode: ModeDir, Name: dir, ID: subID})
			return root
		}
	}

	x := TreeEntry{Mode: ModeFile, Name: "x", ID: fillHash(0x01)}
	y := TreeEntry{Mode: ModeFile, Name: "y", ID: fillHash(0x02)}
	y2 := TreeEntry{Mode: ModeFile, Name: "y", ID: fillHash(0x03)}
	z := TreeEntry{Mode: ModeFile, Name: "z", ID: fillHash(0x04)}

	tests := []struct {
		name string
		a, b func(t *testing.T, s Store) *Tree
		want map[string]ChangeKind
	}{
		{
			name: "changed and added",
			a:    flat(x, y),
			b:    flat(x, y2, z),
			want: map[string]ChangeKind{"y": ChangeChanged, "z": ChangeAdded},
		},
		{
			name: "removed",
			a:    flat(x, y),
			b:    flat(x),
			want: map[string]ChangeKind{"y": ChangeRemoved},
		},
		{
			name: "identical",
			a:    flat(x, y),
			b:    flat(x, y),
			want: map[string]ChangeKind{},
		},
		{
			name: "from nil everything is added",
			a:    nil,
			b:    flat(x, y),
			want: map[string]ChangeKind{"x": ChangeAdded, "y": ChangeAdded},
		},
		{
			name: "to nil everything is removed",
			a:    flat(x, y),
			b:    nil,
			want: map[string]ChangeKind{"x": ChangeRemoved, "y": ChangeRemoved},
		},
		{
			name: "both nil",
			a:    nil,
			b:    nil,
			want: map[string]ChangeKind{},
		},
		{
			name: "nested change",
			a:    nested("sub", x),
			b:    nested("sub", TreeEntry{Mode: ModeFile, Name: "x", ID: fillHash(0x05)}),
			want: map[string]ChangeKind{"sub/x": ChangeChanged},
		},
		{
			name: "submodule pin moved",
			a:    flat(TreeEntry{Mode: ModeSubmodule, Name: "mod", ID: fillHash(0x01)}),
			b:    flat(TreeEntry{Mode: ModeSubmodule, Name: "mod", ID: fillHash(0x02)}),
			want: map[string]ChangeKind{"mod" + SubmoduleTag: ChangeChanged},
		},
		{
			name: "file becomes directory",
			a:    flat(TreeEntry{Mode: ModeFile, Name: "p", ID: fillHash(0x01)}),
			b:    nested("p", TreeEntry{Mode: ModeFile, Name: "q", ID: fillHash(0x02)}),
			want: map[string]ChangeKind{"p": ChangeRemoved, "p/q": ChangeAdded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemStore()
			var a, b *Tree
			if tt.a != nil {
				a = tt.a(t, s)
			}
			if tt.b != nil {
				b = tt.b(t, s)
			}

			got, err := Diff(ctx, s, a, b)
			if err != nil {
				t.Fatalf("Diff failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChangeKindString(t *testing.T) {
	tests := []struct {
		kind ChangeKind
		want string
	}{
		{ChangeAdded, "added"},
		{ChangeRemoved, "removed"},
		{ChangeChanged, "changed"},
		{ChangeKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
