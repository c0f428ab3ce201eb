package graph

import (
	"testing"

	"github.com/phanxgames/viewstage/primitive"
)

func TestNewHasOnlyRoot(t *testing.T) {
	g := New()
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if g.Root() == nil || g.Root().Tag != primitive.TagGroup {
		t.Fatal("root should be a TagGroup primitive at uid 0")
	}
}

func TestAddReturnsNewGraphLeavingOriginalUnchanged(t *testing.T) {
	g := New()
	g2, uid, err := g.Add(RootUID, primitive.Primitive{Tag: primitive.TagRect, ID: "box"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if g.Len() != 1 {
		t.Error("original graph should be unmodified by Add")
	}
	if g2.Len() != 2 {
		t.Fatalf("new graph Len() = %d, want 2", g2.Len())
	}
	if g2.ByID("box") == nil || g2.ByID("box").UID != uid {
		t.Error("ByID should resolve the newly added primitive's assigned uid")
	}
	if len(g2.Root().Children) != 1 || g2.Root().Children[0] != uid {
		t.Error("parent's child list should record the new uid")
	}
}

func TestAddRejectsNonGroupParent(t *testing.T) {
	g := New()
	g, uid, _ := g.Add(RootUID, primitive.Primitive{Tag: primitive.TagRect})
	if _, _, err := g.Add(uid, primitive.Primitive{Tag: primitive.TagRect}); err == nil {
		t.Fatal("adding a child under a non-group primitive should fail")
	}
}

func TestAddRejectsUnknownParent(t *testing.T) {
	g := New()
	if _, _, err := g.Add(999, primitive.Primitive{Tag: primitive.TagRect}); err == nil {
		t.Fatal("adding under an unknown parent uid should fail")
	}
}

func TestModifyPreservesUIDAndChildren(t *testing.T) {
	g := New()
	g, groupUID, _ := g.Add(RootUID, primitive.Primitive{Tag: primitive.TagGroup})
	g, childUID, _ := g.Add(groupUID, primitive.Primitive{Tag: primitive.TagRect})

	g2, err := g.Modify(groupUID, primitive.Primitive{Tag: primitive.TagGroup, ID: "renamed"})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	p := g2.Primitive(groupUID)
	if p.UID != groupUID {
		t.Error("uid should be stable across Modify")
	}
	if len(p.Children) != 1 || p.Children[0] != childUID {
		t.Error("Modify should preserve the existing child list")
	}
	if g2.ByID("renamed") == nil {
		t.Error("id index should pick up the new explicit id")
	}
}

func TestModifyUnknownUIDFails(t *testing.T) {
	g := New()
	if _, err := g.Modify(999, primitive.Primitive{}); err == nil {
		t.Fatal("modifying an unknown uid should fail")
	}
}

func TestDeleteRemovesSubtreeAndParentRef(t *testing.T) {
	g := New()
	g, parentUID, _ := g.Add(RootUID, primitive.Primitive{Tag: primitive.TagGroup})
	g, childUID, _ := g.Add(parentUID, primitive.Primitive{Tag: primitive.TagRect, ID: "leaf"})

	g2, err := g.Delete(parentUID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if g2.Primitive(parentUID) != nil || g2.Primitive(childUID) != nil {
		t.Error("Delete should remove the whole subtree")
	}
	if g2.ByID("leaf") != nil {
		t.Error("id index should be scrubbed for deleted descendants")
	}
	if len(g2.Root().Children) != 0 {
		t.Error("parent's child list should no longer reference the deleted uid")
	}
	if g.Primitive(parentUID) == nil {
		t.Error("original graph should be unaffected by Delete")
	}
}

func TestDeleteRootRejected(t *testing.T) {
	g := New()
	if _, err := g.Delete(RootUID); err == nil {
		t.Fatal("deleting the root should be rejected")
	}
}
