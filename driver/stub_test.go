package driver

import (
	"errors"
	"testing"

	"github.com/nvpkt/e2d2go/mbuf"
)

func TestStubInitPortDefaults(t *testing.T) {
	s := NewStub()
	rx, tx, err := s.InitPort(0, PortConfig{Kind: KindPhysical})
	if err != nil {
		t.Fatalf("InitPort: %v", err)
	}
	if rx != 1 || tx != 1 {
		t.Fatalf("rx=%d tx=%d, want 1,1 when RxQueues/TxQueues unset", rx, tx)
	}
	if s.NumPorts() != 1 {
		t.Fatalf("NumPorts() = %d, want 1", s.NumPorts())
	}
}

func TestStubRecvSend(t *testing.T) {
	s := NewStub()
	if _, _, err := s.InitPort(0, PortConfig{RxQueues: 1, TxQueues: 1}); err != nil {
		t.Fatal(err)
	}

	a := mbuf.NewView(make([]byte, 64), 0)
	b := mbuf.NewView(make([]byte, 64), 0)
	s.SeedRx(0, 0, a, b)

	slots := make([]mbuf.Buffer, 4)
	n, err := s.Recv(0, 0, slots)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("Recv returned %d, want 2", n)
	}

	n, err = s.Send(0, 0, slots[:n])
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("Send accepted %d, want 2", n)
	}
	if got := len(s.Sent(0, 0)); got != 2 {
		t.Fatalf("Sent log has %d entries, want 2", got)
	}
}

func TestStubPartialSend(t *testing.T) {
	s := NewStub()
	if _, _, err := s.InitPort(0, PortConfig{RxQueues: 1, TxQueues: 1}); err != nil {
		t.Fatal(err)
	}
	s.SetSendLimit(0, 0, 1)

	slots := []mbuf.Buffer{mbuf.NewView(make([]byte, 8), 0), mbuf.NewView(make([]byte, 8), 0)}
	n, err := s.Send(0, 0, slots)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("Send accepted %d, want 1 (SetSendLimit)", n)
	}
}

func TestStubErrorInjection(t *testing.T) {
	s := NewStub()
	if _, _, err := s.InitPort(0, PortConfig{RxQueues: 1, TxQueues: 1}); err != nil {
		t.Fatal(err)
	}
	wantErr := errors.New("injected recv failure")
	s.SetRecvErr(0, 0, wantErr)

	if _, err := s.Recv(0, 0, make([]mbuf.Buffer, 1)); !errors.Is(err, wantErr) {
		t.Fatalf("Recv error = %v, want %v", err, wantErr)
	}

	// injected error is consumed after one call
	if _, err := s.Recv(0, 0, make([]mbuf.Buffer, 1)); err != nil {
		t.Fatalf("second Recv should not error, got %v", err)
	}
}

func TestStubQueueOutOfRange(t *testing.T) {
	s := NewStub()
	if _, _, err := s.InitPort(0, PortConfig{RxQueues: 1, TxQueues: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Recv(0, 1, make([]mbuf.Buffer, 1)); err == nil {
		t.Fatal("expected error for out-of-range rx queue")
	}
}

func TestNullDriver(t *testing.T) {
	var n Driver = Null{}
	rx, tx, err := n.InitPort(0, PortConfig{})
	if err != nil || rx != 0 || tx != 0 {
		t.Fatalf("Null.InitPort = (%d, %d, %v)", rx, tx, err)
	}
	got, err := n.Recv(0, 0, make([]mbuf.Buffer, 4))
	if err != nil || got != 0 {
		t.Fatalf("Null.Recv = (%d, %v), want (0, nil)", got, err)
	}
	slots := []mbuf.Buffer{mbuf.NewView(make([]byte, 8), 0)}
	sent, err := n.Send(0, 0, slots)
	if err != nil || sent != 1 {
		t.Fatalf("Null.Send = (%d, %v), want (1, nil)", sent, err)
	}
}
