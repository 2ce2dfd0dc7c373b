package glip

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FileMode encodes an entry's kind and permission bits, rendered as
// unpadded octal in the canonical encoding.
type FileMode uint32

const (
	ModeDir       FileMode = 0o040000
	ModeFile      FileMode = 0o100644
	ModeExec      FileMode = 0o100755
	ModeSymlink   FileMode = 0o120000
	ModeSubmodule FileMode = 0o160000
)

// modeTypeMask selects the object-kind bits of a mode.
const modeTypeMask FileMode = 0o170000

// IsDir reports whether the mode's kind bits name a directory. The
// submodule mode carries the directory bit but is not a directory.
func (m FileMode) IsDir() bool { return m&modeTypeMask == ModeDir }

// IsSubmodule reports whether the mode is the gitlink mode.
func (m FileMode) IsSubmodule() bool { return m == ModeSubmodule }

func (m FileMode) String() string { return strconv.FormatUint(uint64(m), 8) }

func parseMode(text string) (FileMode, error) {
	if text == "" {
		return 0, errors.New("empty mode")
	}
	if text[0] == '0' {
		return 0, fmt.Errorf("zero-padded mode %q", text)
	}
	v, err := strconv.ParseUint(text, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("bad mode %q", text)
	}
	return FileMode(v), nil
}

// TreeEntry is one named reference within a tree: a blob, a subtree,
// or a submodule link, depending on Mode.
type TreeEntry struct {
	Mode FileMode
	Name string
	ID   Hash
}

func (e TreeEntry) IsDir() bool       { return e.Mode.IsDir() }
func (e TreeEntry) IsSubmodule() bool { return e.Mode.IsSubmodule() }

// Tree maps names to entries. Iteration order is irrelevant; the
// byte-ascending order of names is imposed at encode time only. A tree
// whose bytes have been hashed must not be mutated further: clone it
// and build a new object instead.
type Tree struct {
	entries map[string]TreeEntry
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{entries: make(map[string]TreeEntry)}
}

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Entry returns the named entry.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Insert adds or replaces an entry. Names must be non-empty, must not
// contain a slash or NUL byte, and must not be "." or "..". A zero
// mode is rejected; removal goes through Remove.
func (t *Tree) Insert(e TreeEntry) error {
	if err := checkName(e.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if e.Mode == 0 {
		return fmt.Errorf("%w: zero mode for entry %q", ErrInvalidPath, e.Name)
	}
	t.entries[e.Name] = e
	return nil
}

// Remove deletes the named entry, reporting whether it was present.
func (t *Tree) Remove(name string) bool {
	_, ok := t.entries[name]
	delete(t.entries, name)
	return ok
}

// Entries returns all entries sorted by name in ascending byte order.
func (t *Tree) Entries() []TreeEntry {
	entries := make([]TreeEntry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Clone returns an independent copy of the tree.
func (t *Tree) Clone() *Tree {
	clone := &Tree{entries: make(map[string]TreeEntry, len(t.entries))}
	for name, e := range t.entries {
		clone.entries[name] = e
	}
	return clone
}

// Encode renders the canonical byte form: entries sorted by name, each
// serialized as "<octal mode> <name>\0" followed by the 20 raw
// identifier bytes. Two trees with equal entries encode to equal bytes
// regardless of how they were built.
func (t *Tree) Encode() []byte {
	var buf bytes.Buffer
	for _, e := range t.Entries() {
		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID[:])
	}
	return buf.Bytes()
}

// DecodeTree parses canonical tree bytes. Entries may arrive in any
// order; duplicate names and structural damage are ErrFormat.
func DecodeTree(data []byte) (*Tree, error) {
	t := NewTree()
	for off := 0; off < len(data); {
		rest := data[off:]

		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("%w: no space after mode at offset %d", ErrFormat, off)
		}
		mode, err := parseMode(string(rest[:sp]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v at offset %d", ErrFormat, err, off)
		}
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: unterminated name at offset %d", ErrFormat, off)
		}
		name := string(rest[:nul])
		if err := checkName(name); err != nil {
			return nil, fmt.Errorf("%w: %v at offset %d", ErrFormat, err, off)
		}
		rest = rest[nul+1:]

		if len(rest) < HashSize {
			return nil, fmt.Errorf("%w: truncated identifier for entry %q", ErrFormat, name)
		}
		if _, ok := t.entries[name]; ok {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrFormat, name)
		}

		e := TreeEntry{Mode: mode, Name: name}
		copy(e.ID[:], rest[:HashSize])
		t.entries[name] = e

		off += sp + 1 + nul + 1 + HashSize
	}
	return t, nil
}

func checkName(name string) error {
	switch {
	case name == "":
		return errors.New("empty entry name")
	case name == "." || name == "..":
		return fmt.Errorf("reserved entry name %q", name)
	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("entry name %q contains separator byte", name)
	}
	return nil
}
