package bitutil

import "testing"

func TestBitArrayGetSet(t *testing.T) {
	a := NewBitArray(130)
	if a.Size() != 130 {
		t.Fatalf("Size() = %d, want 130", a.Size())
	}
	for _, i := range []int{0, 63, 64, 129} {
		if a.Get(i) {
			t.Errorf("fresh array has bit %d set", i)
		}
		a.Set(i)
		if !a.Get(i) {
			t.Errorf("bit %d not set", i)
		}
	}
	if a.Get(1) || a.Get(65) || a.Get(128) {
		t.Error("neighboring bits set")
	}
}

func TestBitArrayClear(t *testing.T) {
	a := NewBitArray(70)
	a.Set(5)
	a.Set(69)
	a.Clear()
	for i := 0; i < 70; i++ {
		if a.Get(i) {
			t.Fatalf("bit %d still set after Clear", i)
		}
	}
}

func TestBitArrayEmpty(t *testing.T) {
	a := NewBitArray(0)
	if a.Size() != 0 {
		t.Errorf("Size() = %d, want 0", a.Size())
	}
}

func TestBitArrayString(t *testing.T) {
	a := NewBitArray(4)
	a.Set(1)
	a.Set(3)
	if got, want := a.String(), ".X.X"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
