package utils

import (
	"bytes"
	"sync"
	"testing"
)

func TestCollationEngine_BinaryComparison(t *testing.T) {
	e := NewCollationEngine()

	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", 0},
		{"abc", "abd", -1},
		{"abd", "abc", 1},
		{"ABC", "abc", -1}, // binary: 'A' (65) < 'a' (97)
		{"", "", 0},
		{"a", "", 1},
		{"", "a", -1},
	}

	for _, tt := range tests {
		result, err := e.Compare(tt.a, tt.b, "binary")
		if err != nil {
			t.Fatalf("Compare(%q, %q, binary) error: %v", tt.a, tt.b, err)
		}
		if result != tt.want {
			t.Errorf("Compare(%q, %q, binary) = %d, want %d", tt.a, tt.b, result, tt.want)
		}
	}
}

func TestCollationEngine_CaseInsensitive(t *testing.T) {
	e := NewCollationEngine()

	ciCollations := []string{"unicode_ci", "unicode_ai_ci"}

	for _, coll := range ciCollations {
		result, err := e.Compare("abc", "ABC", coll)
		if err != nil {
			t.Fatalf("Compare(abc, ABC, %s) error: %v", coll, err)
		}
		if result != 0 {
			t.Errorf("Compare(abc, ABC, %s) = %d, want 0 (case-insensitive)", coll, result)
		}

		result, err = e.Compare("Hello", "hello", coll)
		if err != nil {
			t.Fatalf("Compare(Hello, hello, %s) error: %v", coll, err)
		}
		if result != 0 {
			t.Errorf("Compare(Hello, hello, %s) = %d, want 0", coll, result)
		}
	}
}

func TestCollationEngine_AccentInsensitive(t *testing.T) {
	e := NewCollationEngine()

	result, err := e.Compare("cafe", "café", "unicode_ai_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result != 0 {
		t.Errorf("Compare(cafe, café, unicode_ai_ci) = %d, want 0 (accent-insensitive)", result)
	}

	result, err = e.Compare("CAFE", "café", "unicode_ai_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result != 0 {
		t.Errorf("Compare(CAFE, café, unicode_ai_ci) = %d, want 0", result)
	}
}

func TestCollationEngine_TurkishLocale(t *testing.T) {
	e := NewCollationEngine()

	// In Turkish, 'I' (capital) lowercases to 'ı' (dotless i), not 'i', and
	// 'İ' (capital dotted i) lowercases to 'i'; under Turkish CI collation
	// both pairs should compare equal.
	result, err := e.Compare("I", "ı", "turkish_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result != 0 {
		t.Errorf("Compare(I, ı, turkish_ci) = %d, want 0", result)
	}

	result, err = e.Compare("İ", "i", "turkish_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result != 0 {
		t.Errorf("Compare(İ, i, turkish_ci) = %d, want 0", result)
	}
}

func TestCollationEngine_GermanPhonebook(t *testing.T) {
	e := NewCollationEngine()

	result, err := e.Compare("ä", "a", "german_phonebook_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result == 0 {
		t.Errorf("Compare(ä, a, german_phonebook_ci) = 0, expected non-zero")
	}

	result, err = e.Compare("Ä", "ä", "german_phonebook_ci")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result != 0 {
		t.Errorf("Compare(Ä, ä, german_phonebook_ci) = %d, want 0 (case-insensitive)", result)
	}
}

func TestCollationEngine_SortKey(t *testing.T) {
	e := NewCollationEngine()

	keyA, err := e.SortKey("abc", "unicode_ci")
	if err != nil {
		t.Fatalf("SortKey error: %v", err)
	}
	keyB, err := e.SortKey("abd", "unicode_ci")
	if err != nil {
		t.Fatalf("SortKey error: %v", err)
	}
	if bytes.Compare(keyA, keyB) >= 0 {
		t.Errorf("SortKey(abc) should be < SortKey(abd)")
	}

	keyUpper, err := e.SortKey("ABC", "unicode_ci")
	if err != nil {
		t.Fatalf("SortKey error: %v", err)
	}
	keyLower, err := e.SortKey("abc", "unicode_ci")
	if err != nil {
		t.Fatalf("SortKey error: %v", err)
	}
	if bytes.Compare(keyUpper, keyLower) != 0 {
		t.Errorf("SortKey(ABC, ci) should equal SortKey(abc, ci)")
	}

	keyBinUpper, _ := e.SortKey("ABC", "binary")
	keyBinLower, _ := e.SortKey("abc", "binary")
	if bytes.Compare(keyBinUpper, keyBinLower) == 0 {
		t.Errorf("SortKey(ABC, binary) should differ from SortKey(abc, binary)")
	}
}

func TestCollationEngine_NewCollator(t *testing.T) {
	e := NewCollationEngine()

	info, ok := e.GetCollationInfo("unicode_ci")
	if !ok {
		t.Fatal("GetCollationInfo returned false for unicode_ci")
	}

	c := e.newCollator(info)
	if c == nil {
		t.Fatal("newCollator returned nil for non-binary collation")
	}

	result := c.CompareString("abc", "ABC")
	if result != 0 {
		t.Errorf("CompareString(abc, ABC) with IgnoreCase = %d, want 0", result)
	}
}

func TestCollationEngine_UnknownCollation(t *testing.T) {
	e := NewCollationEngine()

	resolved := e.ResolveCollation("nonexistent_collation")
	if resolved != "binary" {
		t.Errorf("ResolveCollation(nonexistent) = %q, want %q", resolved, "binary")
	}

	result, err := e.Compare("abc", "ABC", "nonexistent_collation")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result <= 0 {
		t.Errorf("Compare(abc, ABC, binary fallback) should be > 0 (binary: 'a' > 'A'), got %d", result)
	}
}

func TestCollationEngine_EmptyCollation(t *testing.T) {
	e := NewCollationEngine()

	resolved := e.ResolveCollation("")
	if resolved != "binary" {
		t.Errorf("ResolveCollation('') = %q, want %q", resolved, "binary")
	}
}

func TestCollationEngine_Aliases(t *testing.T) {
	e := NewCollationEngine()

	got := e.ResolveCollation("default")
	if got != "unicode_ci" {
		t.Errorf("ResolveCollation(default) = %q, want %q", got, "unicode_ci")
	}
}

func TestCollationEngine_ConcurrentAccess(t *testing.T) {
	e := NewCollationEngine()

	var wg sync.WaitGroup
	collations := []string{
		"unicode_ci",
		"turkish_ci",
		"unicode_ai_ci",
		"binary",
		"german_phonebook_ci",
	}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			coll := collations[idx%len(collations)]
			_, _ = e.Compare("hello", "world", coll)
			_, _ = e.SortKey("test", coll)
			_ = e.ResolveCollation(coll)
			_, _ = e.GetCollationInfo(coll)
		}(i)
	}

	wg.Wait()
}

func TestCollationEngine_ListCollations(t *testing.T) {
	e := NewCollationEngine()
	list := e.ListCollations()

	if len(list) < 15 {
		t.Errorf("ListCollations() returned %d collations, expected at least 15", len(list))
	}

	foundNames := make(map[string]bool)
	for _, info := range list {
		foundNames[info.Name] = true
	}

	required := []string{"binary", "unicode_ci", "unicode_ai_ci", "turkish_ci"}
	for _, name := range required {
		if !foundNames[name] {
			t.Errorf("ListCollations() missing required collation %q", name)
		}
	}
}

func TestCollationEngine_IsCaseInsensitive(t *testing.T) {
	e := NewCollationEngine()

	if e.IsCaseInsensitive("binary") {
		t.Errorf("binary should not be case-insensitive")
	}
	if !e.IsCaseInsensitive("unicode_ci") {
		t.Errorf("unicode_ci should be case-insensitive")
	}
	if !e.IsCaseInsensitive("unicode_ai_ci") {
		t.Errorf("unicode_ai_ci should be case-insensitive")
	}
}

func TestCollationEngine_IsAccentInsensitive(t *testing.T) {
	e := NewCollationEngine()

	if e.IsAccentInsensitive("unicode_ci") {
		t.Errorf("unicode_ci should not be accent-insensitive")
	}
	if !e.IsAccentInsensitive("unicode_ai_ci") {
		t.Errorf("unicode_ai_ci should be accent-insensitive")
	}
}

func TestCollationEngine_GetCollationInfo(t *testing.T) {
	e := NewCollationEngine()

	info, ok := e.GetCollationInfo("turkish_ci")
	if !ok {
		t.Fatal("GetCollationInfo(turkish) returned false")
	}
	if info.Name != "turkish_ci" {
		t.Errorf("info.Name = %q, want %q", info.Name, "turkish_ci")
	}
	if !info.CaseInsensitive {
		t.Error("Turkish CI should be case-insensitive")
	}
	if info.IsBinary {
		t.Error("Turkish CI should not be binary")
	}

	_, ok = e.GetCollationInfo("unknown_collation")
	if ok {
		info, _ := e.GetCollationInfo("unknown_collation")
		if !info.IsBinary {
			t.Error("Unknown collation should resolve to binary")
		}
	}
}

func TestCollationEngine_BinaryCollatorNil(t *testing.T) {
	e := NewCollationEngine()

	info, ok := e.GetCollationInfo("binary")
	if !ok {
		t.Fatal("GetCollationInfo returned false for binary")
	}
	c := e.newCollator(info)
	if c != nil {
		t.Error("newCollator(binary) should return nil")
	}
}

func TestGlobalCollationEngine(t *testing.T) {
	e1 := GetGlobalCollationEngine()
	e2 := GetGlobalCollationEngine()

	if e1 != e2 {
		t.Error("GetGlobalCollationEngine should return the same instance")
	}
	if e1 == nil {
		t.Fatal("GetGlobalCollationEngine returned nil")
	}
}
