package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxUint64, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint64")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(0, math.MaxUint64); !ok || p != 0 {
		t.Fatalf("zero product: %d,%v", p, ok)
	}
	if p, ok := MulOverflowSafe(4, 1<<20); !ok || p != 4<<20 {
		t.Fatalf("MulOverflowSafe(4,1<<20)=%d,%v", p, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxUint64/2, 3); ok {
		t.Fatalf("expected overflow")
	}
}

func TestCheckSpan(t *testing.T) {
	if end, err := CheckSpan(100, 10, 90); err != nil || end != 100 {
		t.Fatalf("CheckSpan exact fit: %d, %v", end, err)
	}
	if _, err := CheckSpan(100, 10, 91); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckSpan(100, math.MaxUint64, 2); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := CheckListBounds(100, 0, math.MaxUint64, 2); err == nil {
		t.Fatalf("expected multiplication overflow")
	}
	if end, err := CheckListBounds(100, 4, 3, 8); err != nil || end != 28 {
		t.Fatalf("CheckListBounds: %d, %v", end, err)
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}
