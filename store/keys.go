package store

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Key layout (C1). Generalized from the teacher's `:`-joined
// key_encoding.go (table:/row:/idx:/seq:/config:) to `/`-joined prefixes, with
// row-ids as fixed-width big-endian suffixes and txids as zero-padded
// fixed-width decimal, so prefix scans and composite-key ordering fall
// directly out of byte comparison. The codec is the only place that knows this layout; every
// other component goes through it rather than building keys itself.
const (
	prefixSchema     = "schema/"
	prefixData       = "data/"
	prefixIndex      = "index/"
	prefixTempSchema = "temp_schema/"
)

// rowIDWidth is the fixed width of a row-id suffix in bytes, matching the
// spec's "fixed-width big-endian monotonically increasing identifier".
const rowIDWidth = 8

// lockKeyBytes returns the single reserved byte for the global structural lock. No
// other prefix above can ever produce a key starting with 0x00, since every
// prefix above begins with an ASCII letter.
func lockKeyBytes() []byte {
	return []byte{0x00}
}

// validateIdentifier rejects table/index/column names that could collide
// with the '/'-separated layout above.
func validateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("store: identifier must not be empty")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("store: identifier %q must not contain '/'", name)
	}
	return nil
}

func schemaKey(table string) []byte {
	return []byte(prefixSchema + table)
}

func tableFromSchemaKey(key []byte) (string, bool) {
	s := string(key)
	if !strings.HasPrefix(s, prefixSchema) {
		return "", false
	}
	return s[len(prefixSchema):], true
}

func rowPrefix(table string) []byte {
	return []byte(prefixData + table + "/")
}

func encodeRowID(id uint64) []byte {
	buf := make([]byte, rowIDWidth)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func decodeRowID(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func rowKey(table string, id uint64) []byte {
	return append(rowPrefix(table), encodeRowID(id)...)
}

// rowIDFromKey extracts the trailing row-id from a full row key, given the
// table it belongs to.
func rowIDFromKey(table string, key []byte) (uint64, bool) {
	prefix := rowPrefix(table)
	if len(key) != len(prefix)+rowIDWidth || !strings.HasPrefix(string(key), string(prefix)) {
		return 0, false
	}
	return decodeRowID(key[len(prefix):]), true
}

func indexPrefix(table, index string) []byte {
	return []byte(prefixIndex + table + "/" + index + "/")
}

// indexKey builds `index/<table>/<index-name>/<encoded-value><row-id>`, with
// no separator between the value and the row-id. encodedValue is
// variable-width but the row-id suffix is a fixed rowIDWidth-byte tail, so
// decoding never needs a length prefix on the value: splitting off the last
// rowIDWidth bytes is unambiguous. Because the value bytes come first, plain
// lexicographic comparison of the whole key orders first by value, then by
// row-id, whenever neither encoded value is a byte prefix of the other; when
// one is (e.g. strings "a" and "ab"), the shorter value's row-id bytes are
// compared against the longer value's remaining bytes.
func indexKey(table, index string, encodedValue []byte, id uint64) []byte {
	buf := indexPrefix(table, index)
	buf = append(buf, encodedValue...)
	buf = append(buf, encodeRowID(id)...)
	return buf
}

// splitIndexKey recovers (encodedValue, rowID) from a full index key given
// its table and index name.
func splitIndexKey(table, index string, key []byte) (encodedValue []byte, id uint64, ok bool) {
	prefix := indexPrefix(table, index)
	if len(key) < len(prefix)+rowIDWidth || !strings.HasPrefix(string(key), string(prefix)) {
		return nil, 0, false
	}
	rest := key[len(prefix):]
	valueLen := len(rest) - rowIDWidth
	return rest[:valueLen], decodeRowID(rest[valueLen:]), true
}

// tempSchemaKey records that txid has a pending structural change against
// table. The txid is zero-padded to a fixed width, matching the teacher's own
// PrimaryKeyGenerator.FormatIntKey convention for ordered-and-fixed-width
// decimal keys.
func tempSchemaKey(txid uint64, table string) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", prefixTempSchema, txid, table))
}

// tempSchemaPrefix scans every pending marker, for recovery sweeps.
func tempSchemaPrefix() []byte {
	return []byte(prefixTempSchema)
}

func parseTempSchemaKey(key []byte) (txid uint64, table string, ok bool) {
	s := string(key)
	if !strings.HasPrefix(s, prefixTempSchema) {
		return 0, "", false
	}
	rest := s[len(prefixTempSchema):]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	var id uint64
	if _, err := fmt.Sscanf(parts[0], "%020d", &id); err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}
