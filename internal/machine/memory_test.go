package machine_test

import (
	"testing"

	"pasm9618/internal/machine"
)

func TestMemory_UnwrittenAddressReadsZero(t *testing.T) {
	m := machine.NewMemory()

	if got := m.Read(42); got != 0 {
		t.Errorf("expected zero Cell for unwritten address, got %d", got)
	}
}

func TestMemory_WriteThenRead(t *testing.T) {
	m := machine.NewMemory()
	m.Write(10, 99)

	if got := m.Read(10); got != 99 {
		t.Errorf("expected 99, got %d", got)
	}
	if m.ReadCount == 0 {
		t.Error("expected ReadCount to be incremented")
	}
	if m.WriteCount == 0 {
		t.Error("expected WriteCount to be incremented")
	}
}

func TestMemory_Reset(t *testing.T) {
	m := machine.NewMemory()
	m.Write(1, 1)
	m.Reset()

	if got := m.Read(1); got != 0 {
		t.Errorf("expected zero after reset, got %d", got)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty memory after reset, got %d entries", m.Len())
	}
}
