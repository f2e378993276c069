package util

import (
	"github.com/filecoin-project/go-bitfield"
)

// BitFieldContainsAll checks whether bitfield `a` contains all bits set in bitfield `b`.
func BitFieldContainsAll(a, b bitfield.BitField) (bool, error) {
	diff, err := bitfield.SubtractBitField(b, a)
	if err != nil {
		return false, err
	}

	return diff.IsEmpty()
}

// BitFieldContainsAny checks whether bitfield `a` contains any bits set in bitfield `b`.
func BitFieldContainsAny(a, b bitfield.BitField) (bool, error) {
	combined, err := bitfield.IntersectBitField(a, b)
	if err != nil {
		return false, err
	}

	empty, err := combined.IsEmpty()
	if err != nil {
		return false, err
	}

	return !empty, nil
}
