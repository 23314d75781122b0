package e2derr

import (
	"errors"
	"syscall"
	"testing"
)

func newAssert(t *testing.T) func(bool, string) {
	t.Helper()
	return func(cond bool, msg string) {
		t.Helper()
		if !cond {
			t.Errorf("assertion failed: %s", msg)
		}
	}
}

func TestNewAndError(t *testing.T) {
	assert := newAssert(t)

	err := NewQueue("pmd.Recv", 2, 5, BadQueue, "queue index out of range")
	assert(err.Code == BadQueue, "code should be BadQueue")
	assert(err.Port == 2 && err.Queue == 5, "port/queue should round-trip")

	const want = "pmd.Recv: port=2 queue=5: bad_queue: queue index out of range"
	assert(err.Error() == want, "Error() string mismatch: "+err.Error())
}

func TestIsCode(t *testing.T) {
	assert := newAssert(t)

	err := New("pmd.Open", FailedToInitializePort, "driver refused init")
	assert(IsCode(err, FailedToInitializePort), "IsCode should match its own code")
	assert(!IsCode(err, BadQueue), "IsCode should not match a different code")

	wrapped := Wrap("pmd.Open", 0, -1, err)
	assert(IsCode(wrapped, FailedToInitializePort), "Wrap should preserve the inner *Error's code")
	assert(errors.Is(wrapped, err), "errors.Is should see through Wrap via Unwrap")
}

func TestWrapErrno(t *testing.T) {
	assert := newAssert(t)

	wrapped := Wrap("pmd.Open", 1, -1, syscall.ENODEV)
	assert(IsCode(wrapped, FailedToInitializePort), "ENODEV should map to FailedToInitializePort")

	var errno syscall.Errno
	assert(errors.As(wrapped, &errno) && errno == syscall.ENODEV, "errors.As should recover the original errno")
}

func TestViolationPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		v, ok := r.(*Violation)
		if !ok {
			t.Fatalf("expected *Violation, got %T", r)
		}
		if v.Op != "batch.Send.DropPackets" {
			t.Fatalf("unexpected op: %s", v.Op)
		}
	}()
	PanicViolation("batch.Send.DropPackets", "operation not permitted on a sink (Send) node")
}
