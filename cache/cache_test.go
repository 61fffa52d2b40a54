package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	c, err := New(5)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 || c.Cap() != 5 {
		t.Fatalf("Cache is %d/%d", c.Len(), c.Cap())
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("No error for zero capacity")
	}
	if _, err := New(-1); err == nil {
		t.Fatal("No error for negative capacity")
	}
}

func TestPushAndFind(t *testing.T) {
	c, _ := New(5)
	modified := time.Now()
	c.Push("/tmp/a.txt", []byte("content"), modified)

	content, ok := c.Find("/tmp/a.txt", modified)
	if !ok {
		t.Fatal("Entry not found")
	}
	if !bytes.Equal(content, []byte("content")) {
		t.Fatalf("Content is %s", content)
	}
	if c.Len() != 1 {
		t.Fatalf("Cache holds %d entries", c.Len())
	}
}

func TestFindStale(t *testing.T) {
	c, _ := New(5)
	modified := time.Now()
	c.Push("/tmp/a.txt", []byte("content"), modified)

	if _, ok := c.Find("/tmp/a.txt", modified.Add(time.Second)); ok {
		t.Fatal("Found entry under a newer mtime")
	}
	if _, ok := c.Find("/tmp/a.txt", modified.Add(-time.Second)); ok {
		t.Fatal("Found entry under an older mtime")
	}
}

func TestFindMissing(t *testing.T) {
	c, _ := New(5)
	if _, ok := c.Find("/tmp/nope.txt", time.Now()); ok {
		t.Fatal("Found an entry that was never pushed")
	}
}

func TestPushReplacesEntry(t *testing.T) {
	c, _ := New(5)
	first := time.Now()
	second := first.Add(time.Minute)
	c.Push("/tmp/a.txt", []byte("old"), first)
	c.Push("/tmp/a.txt", []byte("new"), second)

	if c.Len() != 1 {
		t.Fatalf("Cache holds %d entries", c.Len())
	}
	if _, ok := c.Find("/tmp/a.txt", first); ok {
		t.Fatal("Old mtime still matches")
	}
	content, ok := c.Find("/tmp/a.txt", second)
	if !ok || !bytes.Equal(content, []byte("new")) {
		t.Fatalf("Content is %s", content)
	}
}

// A lookup refreshes recency, so a full cache evicts the entry that went
// longest without being found.
func TestEviction(t *testing.T) {
	c, _ := New(2)
	modified := time.Now()
	c.Push("/tmp/1.txt", []byte("one"), modified)
	c.Push("/tmp/2.txt", []byte("two"), modified)

	if _, ok := c.Find("/tmp/1.txt", modified); !ok {
		t.Fatal("Entry 1 not found")
	}

	c.Push("/tmp/3.txt", []byte("three"), modified)
	if c.Len() != 2 {
		t.Fatalf("Cache holds %d entries", c.Len())
	}
	if _, ok := c.Find("/tmp/2.txt", modified); ok {
		t.Fatal("Entry 2 survived eviction")
	}
	if _, ok := c.Find("/tmp/1.txt", modified); !ok {
		t.Fatal("Entry 1 was evicted")
	}
	if _, ok := c.Find("/tmp/3.txt", modified); !ok {
		t.Fatal("Entry 3 not found")
	}
}

func TestMultipleFiles(t *testing.T) {
	c, _ := New(5)
	modified := time.Now()
	names := []string{"/tmp/a.txt", "/tmp/b.txt", "/tmp/c.txt"}
	for _, name := range names {
		c.Push(name, []byte(name), modified)
	}

	if c.Len() != 3 {
		t.Fatalf("Cache holds %d entries", c.Len())
	}
	for _, name := range names {
		content, ok := c.Find(name, modified)
		if !ok || string(content) != name {
			t.Fatalf("Entry %s is %s", name, content)
		}
	}
}

func TestShouldCache(t *testing.T) {
	if !ShouldCache(10, 100) {
		t.Fatal("Small file not cached")
	}
	if !ShouldCache(100, 100) {
		t.Fatal("Threshold-sized file not cached")
	}
	if ShouldCache(101, 100) {
		t.Fatal("Oversized file cached")
	}
}
