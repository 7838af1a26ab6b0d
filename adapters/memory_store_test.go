package adapters

import "testing"

func TestMemoryStore_SaveLoad(t *testing.T) {
	store := NewMemoryStore()
	items := [][]byte{[]byte("one"), []byte("two")}

	if err := store.Save(items); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded) != 2 || string(loaded[0]) != "one" || string(loaded[1]) != "two" {
		t.Fatal("loaded items do not match saved items")
	}
}

func TestMemoryStore_LoadEmpty(t *testing.T) {
	store := NewMemoryStore()
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("expected empty snapshot")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	store.Save([][]byte{[]byte("x")})

	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	loaded, _ := store.Load()
	if len(loaded) != 0 {
		t.Fatal("expected empty snapshot after clear")
	}
}

func TestMemoryStore_CopiesItems(t *testing.T) {
	store := NewMemoryStore()
	item := []byte("original")
	store.Save([][]byte{item})

	// mutating the caller's slice must not corrupt the snapshot
	item[0] = 'X'

	loaded, _ := store.Load()
	if string(loaded[0]) != "original" {
		t.Fatal("expected store to hold its own copy")
	}
}
