package adt

import (
	"bytes"

	amt "github.com/filecoin-project/go-amt-ipld/v3"
	"github.com/filecoin-project/go-state-types/cbor"
	cid "github.com/ipfs/go-cid"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"
)

var DefaultAmtOptions = []amt.Option{}

// Array stores a sparse sequence of values in an AMT.
type Array struct {
	root  *amt.Root
	store Store
}

// AsArray interprets a store as an AMT-based array with root `r`.
func AsArray(s Store, r cid.Cid, bitwidth int) (*Array, error) {
	options := append(DefaultAmtOptions, amt.UseTreeBitWidth(uint(bitwidth)))
	root, err := amt.LoadAMT(s.Context(), s, r, options...)
	if err != nil {
		return nil, xerrors.Errorf("failed to root: %w", err)
	}
	return &Array{
		root:  root,
		store: s,
	}, nil
}

// MakeEmptyArray creates a new array backed by an empty AMT.
func MakeEmptyArray(s Store, bitwidth int) (*Array, error) {
	options := append(DefaultAmtOptions, amt.UseTreeBitWidth(uint(bitwidth)))
	root, err := amt.NewAMT(s, options...)
	if err != nil {
		return nil, err
	}
	return &Array{
		root:  root,
		store: s,
	}, nil
}

// StoreEmptyArray creates and stores a new empty array, returning its CID.
func StoreEmptyArray(s Store, bitwidth int) (cid.Cid, error) {
	arr, err := MakeEmptyArray(s, bitwidth)
	if err != nil {
		return cid.Undef, err
	}
	return arr.Root()
}

// Root flushes the array and returns the root cid of the underlying AMT.
func (a *Array) Root() (cid.Cid, error) {
	return a.root.Flush(a.store.Context())
}

// AppendContinuous appends a value to the end of the array, which must be
// dense (no unset indices below the length).
func (a *Array) AppendContinuous(value cbor.Marshaler) error {
	return a.root.Set(a.store.Context(), a.root.Len(), value)
}

// Set stores a value at index `i`.
func (a *Array) Set(i uint64, value cbor.Marshaler) error {
	return a.root.Set(a.store.Context(), i, value)
}

// TryDelete removes the value at `i` if present, returning whether it was.
func (a *Array) TryDelete(i uint64) (bool, error) {
	return a.root.Delete(a.store.Context(), i)
}

// Delete removes the value at `i`, expecting it to be present.
func (a *Array) Delete(i uint64) error {
	found, err := a.root.Delete(a.store.Context(), i)
	if err != nil {
		return xerrors.Errorf("failed to delete index %d: %w", i, err)
	}
	if !found {
		return xerrors.Errorf("no such index %d to delete", i)
	}
	return nil
}

// Get retrieves the value at index `i` into `out`, if present.
// Returns whether the index was set.
func (a *Array) Get(i uint64, out cbor.Unmarshaler) (bool, error) {
	return a.root.Get(a.store.Context(), i, out)
}

// Length returns the number of set indices plus trailing gaps; for dense
// arrays this is the index one past the last entry.
func (a *Array) Length() uint64 {
	return a.root.Len()
}

// ForEach iterates all entries in the array, deserializing each value into
// `out` before calling `fn` with the corresponding index. Iteration halts if
// `fn` returns an error. If `out` is nil values are not deserialized.
func (a *Array) ForEach(out cbor.Unmarshaler, fn func(i int64) error) error {
	return a.root.ForEach(a.store.Context(), func(k uint64, val *cbg.Deferred) error {
		if out != nil {
			if err := out.UnmarshalCBOR(bytes.NewReader(val.Raw)); err != nil {
				return err
			}
		}
		return fn(int64(k))
	})
}
