package mbuf

import "testing"

func TestViewPayloadAndHeadroom(t *testing.T) {
	backing := make([]byte, 64)
	for i := range backing {
		backing[i] = byte(i)
	}

	v := NewView(backing, 16)
	if got := len(v.Payload()); got != 48 {
		t.Fatalf("payload len = %d, want 48", got)
	}

	if _, err := v.AdjustHeadroom(-4); err != nil {
		t.Fatalf("AdjustHeadroom(-4): %v", err)
	}
	if got := len(v.Payload()); got != 52 {
		t.Fatalf("payload len after headroom shrink = %d, want 52", got)
	}

	if _, err := v.AdjustPayloadSize(-10); err != nil {
		t.Fatalf("AdjustPayloadSize(-10): %v", err)
	}
	if got := len(v.Payload()); got != 42 {
		t.Fatalf("payload len after shrink = %d, want 42", got)
	}

	if _, err := v.AdjustPayloadSize(1000); err == nil {
		t.Fatal("expected error growing payload past backing capacity")
	}
	if _, err := v.AdjustHeadroom(-1000); err == nil {
		t.Fatal("expected error shrinking headroom below zero")
	}
}

func TestViewPayloadAt(t *testing.T) {
	backing := make([]byte, 20)
	v := NewView(backing, 0)

	hdr, rest, ok := v.PayloadAt(14)
	if !ok || len(hdr) != 14 || len(rest) != 6 {
		t.Fatalf("PayloadAt(14) = (%d, %d, %v), want (14, 6, true)", len(hdr), len(rest), ok)
	}

	if _, _, ok := v.PayloadAt(21); ok {
		t.Fatal("PayloadAt past payload length should fail")
	}
}

func TestPoolRoundTrip(t *testing.T) {
	buf := GetBuffer(1500)
	if len(buf) != 1500 {
		t.Fatalf("GetBuffer(1500) len = %d, want 1500", len(buf))
	}
	PutBuffer(buf)

	buf2 := GetBuffer(200)
	if len(buf2) != 200 {
		t.Fatalf("GetBuffer(200) len = %d, want 200", len(buf2))
	}

	big := GetBuffer(20000)
	if len(big) != 20000 {
		t.Fatalf("GetBuffer(20000) len = %d, want 20000", len(big))
	}
	PutBuffer(big) // oversized buffer: dropped, not pooled; must not panic
}
