package bimap

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	gocmp "github.com/google/go-cmp/cmp"
)

func set[T comparable](values ...T) mapset.Set[T] {
	return mapset.NewThreadUnsafeSet(values...)
}

func expectSet[T int | string](t *testing.T, what string, got mapset.Set[T], ok bool, want ...T) {
	t.Helper()
	if len(want) == 0 {
		if ok {
			t.Errorf("%s: expected absent, got %v", what, sorted(got))
		}
		return
	}
	if !ok {
		t.Errorf("%s: expected %v, was absent", what, want)
		return
	}
	if diff := gocmp.Diff(want, sorted(got)); diff != "" {
		t.Errorf("%s (-want +got):\n%s", what, diff)
	}
}

func TestSetLeft(t *testing.T) {
	m := New[int, int]()
	m.SetLeft(NewRc(0), set(1, 2, 3))

	got, ok := m.GetLeft(0)
	expectSet(t, "GetLeft(0)", got, ok, 1, 2, 3)
	got, ok = m.GetRight(0)
	expectSet(t, "GetRight(0)", got, ok)
	for _, r := range []int{1, 2, 3} {
		got, ok = m.GetRight(r)
		expectSet(t, "GetRight", got, ok, 0)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	checkInvariants(t, m)
}

func TestSetLeftReplacesExisting(t *testing.T) {
	m := New[int, int]()
	m.Insert(0, 4)
	m.SetLeft(NewRc(0), set(1, 2, 3))

	got, ok := m.GetLeft(0)
	expectSet(t, "GetLeft(0)", got, ok, 1, 2, 3)
	got, ok = m.GetRight(4)
	expectSet(t, "GetRight(4)", got, ok)
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	checkInvariants(t, m)
}

func TestSetLeftSharedRights(t *testing.T) {
	m := New[int, int]()
	m.Insert(0, 2)
	m.Insert(0, 3)
	m.Insert(1, 2)
	m.Insert(1, 3)
	m.SetLeft(NewRc(0), set(4))

	got, ok := m.GetLeft(0)
	expectSet(t, "GetLeft(0)", got, ok, 4)
	got, ok = m.GetLeft(1)
	expectSet(t, "GetLeft(1)", got, ok, 2, 3)
	got, ok = m.GetRight(2)
	expectSet(t, "GetRight(2)", got, ok, 1)
	got, ok = m.GetRight(3)
	expectSet(t, "GetRight(3)", got, ok, 1)
	got, ok = m.GetRight(4)
	expectSet(t, "GetRight(4)", got, ok, 0)
	checkInvariants(t, m)
}

func TestSetLeftKeepsHandles(t *testing.T) {
	m := New[string, string]()
	m.Insert("k", "same")
	m.Insert("k", "gone")

	key, _ := m.LeftHandle("k")
	same, _ := m.RightHandle("same")

	m.SetLeft(NewRc("k"), set("same", "new"))

	if got, _ := m.LeftHandle("k"); got != key {
		t.Errorf("key handle should not be replaced")
	}
	if got, _ := m.RightHandle("same"); got != same {
		t.Errorf("unchanged value should keep its handle")
	}
	for rc := range m.RightHandles("new") {
		if rc != key {
			t.Errorf("new pairs should share the key handle")
		}
	}
	if _, ok := m.RightHandle("gone"); ok {
		t.Errorf("removed value should be released")
	}
	checkInvariants(t, m)
}

func TestSetLeftInstallsKey(t *testing.T) {
	m := New[string, string]()
	key := NewRc("k")
	m.SetLeft(key, set("a", "b"))

	for _, r := range []string{"a", "b"} {
		for rc := range m.RightHandles(r) {
			if rc != key {
				t.Errorf("passed key should be installed in %q's bucket", r)
			}
		}
	}
}

func TestSetLeftEmpty(t *testing.T) {
	m := New[int, int]()
	m.Insert(0, 1)
	m.Insert(5, 1)

	m.SetLeft(NewRc(0), set[int]())
	if m.HasLeft(0) {
		t.Errorf("empty set should remove the key")
	}
	got, ok := m.GetRight(1)
	expectSet(t, "GetRight(1)", got, ok, 5)

	m.SetLeft(NewRc(5), nil)
	if m.Len() != 0 || m.RightLen() != 0 {
		t.Errorf("nil set should remove the key")
	}

	m.SetLeft(NewRc(9), nil)
	if m.Len() != 0 {
		t.Errorf("setting nothing on a missing key is a no-op")
	}
	checkInvariants(t, m)
}

func TestSetRight(t *testing.T) {
	m := New[int, int]()
	m.SetRight(NewRc(0), set(1, 2, 3))

	got, ok := m.GetRight(0)
	expectSet(t, "GetRight(0)", got, ok, 1, 2, 3)
	got, ok = m.GetLeft(0)
	expectSet(t, "GetLeft(0)", got, ok)
	for _, l := range []int{1, 2, 3} {
		got, ok = m.GetLeft(l)
		expectSet(t, "GetLeft", got, ok, 0)
	}
	checkInvariants(t, m)
}

func TestSetRightReplacesExisting(t *testing.T) {
	m := New[int, int]()
	m.Insert(4, 0)
	m.SetRight(NewRc(0), set(1, 2, 3))

	got, ok := m.GetRight(0)
	expectSet(t, "GetRight(0)", got, ok, 1, 2, 3)
	got, ok = m.GetLeft(4)
	expectSet(t, "GetLeft(4)", got, ok)
	checkInvariants(t, m)
}

func TestSetRightSharedLefts(t *testing.T) {
	m := New[int, int]()
	m.Insert(2, 0)
	m.Insert(3, 0)
	m.Insert(2, 1)
	m.Insert(3, 1)
	m.SetRight(NewRc(0), set(4))

	got, ok := m.GetRight(0)
	expectSet(t, "GetRight(0)", got, ok, 4)
	got, ok = m.GetRight(1)
	expectSet(t, "GetRight(1)", got, ok, 2, 3)
	got, ok = m.GetLeft(2)
	expectSet(t, "GetLeft(2)", got, ok, 1)
	got, ok = m.GetLeft(3)
	expectSet(t, "GetLeft(3)", got, ok, 1)
	got, ok = m.GetLeft(4)
	expectSet(t, "GetLeft(4)", got, ok, 0)
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	checkInvariants(t, m)
}

func TestSetObserved(t *testing.T) {
	m := New[int, int]()
	m.Insert(0, 1)
	m.Insert(0, 2)

	var adds, removes int
	m.Observe(func(c Change[int, int]) {
		switch c.Op {
		case OpAdd:
			adds++
		case OpRemove:
			removes++
		}
	})

	m.SetLeft(NewRc(0), set(2, 3, 4))
	if adds != 2 || removes != 1 {
		t.Errorf("expected 2 adds and 1 remove, got %d and %d", adds, removes)
	}
}
