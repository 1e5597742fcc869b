package database

import (
	"path/filepath"
	"testing"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	cache, err := Open(filepath.Join(t.TempDir(), "danser-reading.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() {
		if err := cache.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	return cache
}

func TestPutGet(t *testing.T) {
	cache := openTestCache(t)

	entry := Entry{
		MD5:         "0123456789abcdef0123456789abcdef",
		Mods:        difficulty.Hidden | difficulty.DoubleTime,
		Version:     3,
		ClockRate:   1.5,
		Reading:     2.75,
		StrainCount: 120.5,
		Objects:     812,
	}

	if err := cache.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	tests := []struct {
		name      string
		mods      difficulty.Modifier
		clockRate float64
		version   int
		found     bool
	}{
		{"exact", difficulty.Hidden | difficulty.DoubleTime, 1.5, 3, true},
		{"ignores non difficulty mods", difficulty.Hidden | difficulty.DoubleTime | difficulty.NoFail, 1.5, 3, true},
		{"other mods", difficulty.Hidden, 1.5, 3, false},
		{"other rate", difficulty.Hidden | difficulty.DoubleTime, 1.25, 3, false},
		{"other version", difficulty.Hidden | difficulty.DoubleTime, 1.5, 4, false},
	}

	for _, test := range tests {
		got, found, err := cache.Get(entry.MD5, test.mods, test.clockRate, test.version)
		if err != nil {
			t.Fatalf("%s: Get: %v", test.name, err)
		}

		if found != test.found {
			t.Errorf("%s: found = %v, expected %v", test.name, found, test.found)
			continue
		}

		if found && (got.Reading != entry.Reading || got.StrainCount != entry.StrainCount || got.Objects != entry.Objects) {
			t.Errorf("%s: got %+v, expected %+v", test.name, got, entry)
		}
	}
}

func TestPutReplaces(t *testing.T) {
	cache := openTestCache(t)

	entry := Entry{MD5: "abc", Version: 1, ClockRate: 1, Reading: 1}
	if err := cache.Put(entry); err != nil {
		t.Fatal(err)
	}

	entry.Reading = 2
	if err := cache.Put(entry); err != nil {
		t.Fatal(err)
	}

	got, found, err := cache.Get("abc", difficulty.None, 1, 1)
	if err != nil || !found || got.Reading != 2 {
		t.Errorf("got %+v found=%v err=%v, expected replaced rating", got, found, err)
	}
}

func TestPrune(t *testing.T) {
	cache := openTestCache(t)

	for version := 1; version <= 3; version++ {
		if err := cache.Put(Entry{MD5: "abc", Version: version, ClockRate: 1}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := cache.Prune(3)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if removed != 2 {
		t.Errorf("removed %d entries, expected 2", removed)
	}

	if _, found, _ := cache.Get("abc", difficulty.None, 1, 3); !found {
		t.Error("current version entry was pruned")
	}
}

func TestOpenInvalidPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "cache.db")); err == nil {
		t.Error("expected error for a path in a missing directory")
	}
}

func TestCloseNil(t *testing.T) {
	var cache *Cache
	if err := cache.Close(); err != nil {
		t.Errorf("Close on nil cache: %v", err)
	}
}

func TestNightcoreSharesDoubleTimeEntry(t *testing.T) {
	cache := openTestCache(t)

	if err := cache.Put(Entry{MD5: "abc", Mods: difficulty.Hidden | difficulty.Nightcore | difficulty.DoubleTime, Version: 1, ClockRate: 1.5, Reading: 3}); err != nil {
		t.Fatal(err)
	}

	for _, mods := range []difficulty.Modifier{
		difficulty.Hidden | difficulty.DoubleTime,
		difficulty.Hidden | difficulty.Nightcore,
		difficulty.Hidden | difficulty.Nightcore | difficulty.DoubleTime,
	} {
		got, found, err := cache.Get("abc", mods, 1.5, 1)
		if err != nil {
			t.Fatalf("%s: Get: %v", mods, err)
		}

		if !found || got.Reading != 3 {
			t.Errorf("%s: found = %v, reading = %v", mods, found, got.Reading)
		}

		if got.Mods != difficulty.Hidden|difficulty.DoubleTime {
			t.Errorf("%s: entry mods = %s, expected HDDT", mods, got.Mods)
		}
	}
}
