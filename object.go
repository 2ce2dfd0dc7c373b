package glip

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// ObjectType discriminates stored object payloads.
type ObjectType string

const (
	TypeBlob ObjectType = "blob"
	TypeTree ObjectType = "tree"
)

// EncodeObject frames content for storage as "<type> <size>\0<content>".
// Identifiers are computed over these framed bytes, so the type and
// size are part of every object's address.
func EncodeObject(typ ObjectType, content []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", typ, len(content))
	buf := make([]byte, 0, len(header)+len(content))
	buf = append(buf, header...)
	return append(buf, content...)
}

// DecodeObject splits framed bytes into type and content.
func DecodeObject(data []byte) (ObjectType, []byte, error) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("%w: missing header terminator", ErrFormat)
	}
	header := string(data[:nul])
	typ, sizeText, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("%w: no size in header %q", ErrFormat, header)
	}
	size, err := strconv.Atoi(sizeText)
	if err != nil || size < 0 {
		return "", nil, fmt.Errorf("%w: bad size in header %q", ErrFormat, header)
	}
	content := data[nul+1:]
	if len(content) != size {
		return "", nil, fmt.Errorf("%w: header claims %d bytes, have %d", ErrFormat, size, len(content))
	}
	switch ObjectType(typ) {
	case TypeBlob, TypeTree:
		return ObjectType(typ), content, nil
	}
	return "", nil, fmt.Errorf("%w: unknown object type %q", ErrFormat, typ)
}

// HashObject returns the identifier content would be stored under.
func HashObject(typ ObjectType, content []byte) Hash {
	return store.HashBytes(EncodeObject(typ, content))
}

// loadTree fetches and decodes the tree object id refers to.
func loadTree(ctx context.Context, s Store, id Hash) (*Tree, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	typ, content, err := DecodeObject(data)
	if err != nil {
		return nil, err
	}
	if typ != TypeTree {
		return nil, fmt.Errorf("%w: object %s is a %s, want tree", ErrFormat, id, typ)
	}
	return DecodeTree(content)
}

// putTree frames and persists a tree, returning its identifier.
func putTree(ctx context.Context, s Store, t *Tree) (Hash, error) {
	return s.Put(ctx, EncodeObject(TypeTree, t.Encode()))
}
