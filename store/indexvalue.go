package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/badgerql/txschema/pkg/utils"
)

// encodeIndexValue produces the order-preserving byte encoding used as the
// <encoded-value> segment of an index key. One byte of kind tag precedes the
// payload so distinct kinds never collide, followed by a payload whose
// lexicographic byte order matches the value's logical order within that
// kind — the invariant the composite index key depends on.
//
// col carries the declared collation for string columns (§3 "Column"); a
// non-binary collation produces a locale-aware sort key via
// pkg/utils.CollationEngine instead of the raw string bytes.
func encodeIndexValue(v Value, col Column) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return []byte{byte(KindNull)}, nil
	case KindString:
		payload, err := stringSortKey(v.StringVal(), col.Collation)
		if err != nil {
			return nil, fmt.Errorf("store: encoding index value: %w", err)
		}
		return append([]byte{byte(KindString)}, payload...), nil
	case KindInt64:
		return append([]byte{byte(KindInt64)}, encodeOrderedInt64(v.Int64Val())...), nil
	case KindFloat64:
		return append([]byte{byte(KindFloat64)}, encodeOrderedFloat64(v.Float64Val())...), nil
	case KindBool:
		b := byte(0)
		if v.BoolVal() {
			b = 1
		}
		return []byte{byte(KindBool), b}, nil
	case KindTime:
		return append([]byte{byte(KindTime)}, encodeOrderedInt64(v.TimeVal().UnixNano())...), nil
	default:
		return nil, fmt.Errorf("store: cannot encode index value of kind %v", v.Kind())
	}
}

func stringSortKey(s, collation string) ([]byte, error) {
	if collation == "" || collation == "binary" {
		return []byte(s), nil
	}
	engine := utils.GetGlobalCollationEngine()
	return engine.SortKey(s, collation)
}

// encodeOrderedInt64 XORs the sign bit so big-endian byte comparison of the
// unsigned result matches signed numeric order (standard two's-complement
// trick: flipping the top bit puts negatives before positives).
func encodeOrderedInt64(v int64) []byte {
	u := uint64(v) ^ (1 << 63)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, u)
	return buf
}

// encodeOrderedFloat64 maps IEEE-754 bits so big-endian comparison matches
// float order: for non-negative floats, flip the sign bit; for negative
// floats, flip every bit (reverses their otherwise-backwards bit order).
func encodeOrderedFloat64(f float64) []byte {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)
	return buf
}
