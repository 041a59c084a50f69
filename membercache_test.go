package barb

import "testing"

func TestMemberCacheGetPut(t *testing.T) {
	c := NewMemberCache()
	if _, ok := c.Get("Point", "X"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	c.Put("Point", "X", "handle-x")
	got, ok := c.Get("Point", "X")
	if !ok || got != "handle-x" {
		t.Fatalf("expected cached handle-x, got %v, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestMemberCacheDistinctKeys(t *testing.T) {
	c := NewMemberCache()
	c.Put("Point", "X", "px")
	c.Put("Point", "Y", "py")
	c.Put("Vector", "X", "vx")
	if c.Len() != 3 {
		t.Fatalf("expected 3 distinct entries, got %d", c.Len())
	}
	got, _ := c.Get("Vector", "X")
	if got != "vx" {
		t.Fatalf("expected vx, got %v", got)
	}
}
