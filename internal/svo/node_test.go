package svo

import "testing"

func TestNodeFlags(t *testing.T) {
	n := newEmptyNode()
	if !n.IsEmpty() {
		t.Fatalf("fresh node should be empty")
	}
	if n.IsLeaf() {
		t.Fatalf("fresh node should not be a leaf")
	}
}

func TestSetNodeLeaf(t *testing.T) {
	var n Node
	setNode(&n, false, true, childIdxMask, 0x112233)
	if n.IsEmpty() {
		t.Fatalf("expected non-empty node")
	}
	if !n.IsLeaf() {
		t.Fatalf("expected leaf node")
	}
	if n.ChildIdx() != childIdxMask {
		t.Fatalf("expected child idx sentinel, got %x", n.ChildIdx())
	}
	if n.Color() != 0x112233 {
		t.Fatalf("unexpected color %x", n.Color())
	}
}

func TestSetNodeInternal(t *testing.T) {
	var n Node
	setNode(&n, false, false, 17, 0)
	if n.IsLeaf() {
		t.Fatalf("expected non-leaf node")
	}
	if n.ChildIdx() != 17 {
		t.Fatalf("expected child idx 17, got %d", n.ChildIdx())
	}
}
