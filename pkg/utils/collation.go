package utils

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CollationInfo describes one registered collation's properties.
type CollationInfo struct {
	Name              string
	Tag               language.Tag
	CaseInsensitive   bool
	AccentInsensitive bool
	IsBinary          bool
	options           []collate.Option
}

// CollationEngine provides locale-aware string comparison and sort-key
// generation for store.Column.Collation. Adapted from the teacher's MySQL
// charset/collation registry (originally keyed by numeric charset IDs for
// wire-protocol compatibility); this module has no wire protocol, so the
// registry here is keyed purely by collation name and carries only what
// index-key encoding needs: a language.Tag plus collate.Option set.
// Collator instances are created per call because they are NOT
// goroutine-safe.
type CollationEngine struct {
	registry map[string]*CollationInfo
	aliases  map[string]string
}

var (
	globalEngine *CollationEngine
	engineOnce   sync.Once
)

// GetGlobalCollationEngine returns the global CollationEngine singleton.
func GetGlobalCollationEngine() *CollationEngine {
	engineOnce.Do(func() {
		globalEngine = NewCollationEngine()
	})
	return globalEngine
}

// NewCollationEngine creates a new CollationEngine with the supported
// collation registry.
func NewCollationEngine() *CollationEngine {
	e := &CollationEngine{
		registry: make(map[string]*CollationInfo),
		aliases:  make(map[string]string),
	}
	e.initRegistry()
	return e
}

func (e *CollationEngine) initRegistry() {
	e.registerCollation(&CollationInfo{Name: "binary", IsBinary: true})

	e.registerCollation(&CollationInfo{
		Name: "unicode_ci", Tag: language.Und, CaseInsensitive: true,
		options: []collate.Option{collate.IgnoreCase},
	})
	e.registerCollation(&CollationInfo{
		Name: "unicode_ai_ci", Tag: language.Und,
		CaseInsensitive: true, AccentInsensitive: true,
		options: []collate.Option{collate.IgnoreCase, collate.Loose},
	})

	type localeCI struct {
		name    string
		langTag string
	}
	localeCIs := []localeCI{
		{"turkish_ci", "tr"},
		{"german_phonebook_ci", "de-u-co-phonebk"},
		{"spanish_ci", "es"},
		{"swedish_ci", "sv"},
		{"danish_ci", "da"},
		{"polish_ci", "pl"},
		{"czech_ci", "cs"},
		{"icelandic_ci", "is"},
		{"romanian_ci", "ro"},
		{"hungarian_ci", "hu"},
		{"croatian_ci", "hr"},
		{"slovenian_ci", "sl"},
		{"estonian_ci", "et"},
		{"latvian_ci", "lv"},
		{"lithuanian_ci", "lt"},
		{"persian_ci", "fa"},
		{"vietnamese_ci", "vi"},
		{"slovak_ci", "sk"},
	}
	for _, lc := range localeCIs {
		e.registerCollation(&CollationInfo{
			Name:            lc.name,
			Tag:             language.MustParse(lc.langTag),
			CaseInsensitive: true,
			options:         []collate.Option{collate.IgnoreCase},
		})
	}

	e.aliases["default"] = "unicode_ci"
	e.aliases[""] = "binary"
}

func (e *CollationEngine) registerCollation(info *CollationInfo) {
	e.registry[info.Name] = info
}

// ResolveCollation normalizes a collation name, resolving aliases and case
// differences. Returns the canonical collation name, falling back to
// "binary" for anything unrecognized.
func (e *CollationEngine) ResolveCollation(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := e.aliases[lower]; ok {
		return canonical
	}
	if _, ok := e.registry[lower]; ok {
		return lower
	}
	return "binary"
}

// GetCollationInfo returns metadata for a collation. Unknown names resolve
// to "binary" (see ResolveCollation), so they get the binary collation's
// metadata and ok is true.
func (e *CollationEngine) GetCollationInfo(name string) (*CollationInfo, bool) {
	resolved := e.ResolveCollation(name)
	info, ok := e.registry[resolved]
	return info, ok
}

// ListCollations returns all registered collations.
func (e *CollationEngine) ListCollations() []*CollationInfo {
	result := make([]*CollationInfo, 0, len(e.registry))
	for _, info := range e.registry {
		result = append(result, info)
	}
	return result
}

func (e *CollationEngine) newCollator(info *CollationInfo) *collate.Collator {
	if info.IsBinary {
		return nil
	}
	return collate.New(info.Tag, info.options...)
}

// Compare compares two strings using the specified collation. Returns -1,
// 0, or 1.
func (e *CollationEngine) Compare(a, b string, collationName string) (int, error) {
	resolved := e.ResolveCollation(collationName)
	info := e.registry[resolved]
	if info == nil || info.IsBinary {
		return binaryCompare(a, b), nil
	}
	c := e.newCollator(info)
	return c.CompareString(a, b), nil
}

// SortKey generates a binary sort key for s under the named collation.
// Sort keys can be compared with bytes.Compare for correct collation
// ordering — this is what store/indexvalue.go uses to encode non-binary
// string index values.
func (e *CollationEngine) SortKey(s string, collationName string) ([]byte, error) {
	resolved := e.ResolveCollation(collationName)
	info := e.registry[resolved]
	if info == nil || info.IsBinary {
		return []byte(s), nil
	}
	c := e.newCollator(info)
	buf := &collate.Buffer{}
	return c.KeyFromString(buf, s), nil
}

// IsCaseInsensitive returns true if the named collation is case-insensitive.
func (e *CollationEngine) IsCaseInsensitive(collationName string) bool {
	info, ok := e.GetCollationInfo(collationName)
	return ok && info.CaseInsensitive
}

// IsAccentInsensitive returns true if the named collation is
// accent-insensitive.
func (e *CollationEngine) IsAccentInsensitive(collationName string) bool {
	info, ok := e.GetCollationInfo(collationName)
	return ok && info.AccentInsensitive
}

func binaryCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
