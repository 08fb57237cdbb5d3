package bimap

import (
	"encoding/json"
	"errors"
	"net/netip"
	"testing"
)

func TestMarshal(t *testing.T) {
	b, err := json.Marshal(FromPairs(Pair[string, string]{"a", "b"}))
	if err != nil || string(b) != `{"a":"b"}` {
		t.Errorf("bad marshal: %s err=%v", b, err)
	}

	b, err = json.Marshal(FromPairs(Pair[string, int]{"a", 0}))
	if err != nil || string(b) != `{"a":0}` {
		t.Errorf("bad marshal: %s err=%v", b, err)
	}

	b, err = json.Marshal(NewOrderedOf[int, string]())
	if err != nil || string(b) != `{}` {
		t.Errorf("bad marshal of empty: %s err=%v", b, err)
	}

	ordered := NewOrderedOf[int, string]()
	ordered.Insert(2, "x")
	ordered.Insert(1, "y")
	ordered.Insert(1, "x")
	b, err = json.Marshal(ordered)
	if err != nil || string(b) != `{"1":"x","1":"y","2":"x"}` {
		t.Errorf("bad marshal of repeated keys: %s err=%v", b, err)
	}
}

func TestUnmarshal(t *testing.T) {
	var m Multi[string, string]
	if err := json.Unmarshal([]byte(`{"a":"b"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Equal(FromPairs(Pair[string, string]{"a", "b"})) {
		t.Errorf("bad unmarshal: %+v", m.Pairs())
	}

	err := json.Unmarshal([]byte(`{"a":"b", "a":"a", "b":"b", "b":"a"}`), &m)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := FromPairs(
		Pair[string, string]{"a", "b"},
		Pair[string, string]{"a", "a"},
		Pair[string, string]{"b", "b"},
		Pair[string, string]{"b", "a"},
	)
	if !m.Equal(want) {
		t.Errorf("repeated keys should each insert, got %+v", m.Pairs())
	}
	checkInvariants(t, &m)

	if err := json.Unmarshal([]byte(`null`), &m); err != nil || m.Len() != 0 {
		t.Errorf("null should empty the map, err=%v len=%d", err, m.Len())
	}
}

func TestUnmarshalKeys(t *testing.T) {
	var ints Multi[int, bool]
	if err := json.Unmarshal([]byte(`{"1":true,"2":false,"1":false}`), &ints); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ints.Len() != 3 || !ints.Has(1, false) {
		t.Errorf("bad int keys: %+v", ints.Pairs())
	}

	var addrs Multi[netip.Addr, string]
	if err := json.Unmarshal([]byte(`{"10.0.0.1":"a","::1":"b"}`), &addrs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !addrs.Has(netip.MustParseAddr("::1"), "b") {
		t.Errorf("bad text keys: %+v", addrs.Pairs())
	}
	b, _ := json.Marshal(&addrs)
	var again Multi[netip.Addr, string]
	if err := json.Unmarshal(b, &again); err != nil || !again.Equal(&addrs) {
		t.Errorf("text keys should round-trip: %s err=%v", b, err)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	m := FromPairs(Pair[int, int]{5, 5})

	err := json.Unmarshal([]byte(`{"x":1}`), m)
	if !errors.Is(err, ErrKeyType) {
		t.Errorf("expected ErrKeyType, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"1":"str"}`), m); err == nil {
		t.Errorf("expected value error")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), m); err == nil {
		t.Errorf("expected object error")
	}
	if !m.Has(5, 5) || m.Len() != 1 {
		t.Errorf("failed unmarshal should leave the map unchanged")
	}
}
