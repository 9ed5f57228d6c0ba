package display

import (
	"reflect"
	"testing"
)

func TestWrapBreaksOnWords(t *testing.T) {
	got := Wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapHardSplitsLongWords(t *testing.T) {
	got := Wrap("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapLongWordMidSentence(t *testing.T) {
	got := Wrap("go abcdefgh end", 5)
	want := []string{"go", "abcde", "fgh", "end"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapEmptyString(t *testing.T) {
	if got := Wrap("", 10); len(got) != 0 {
		t.Errorf("Wrap of empty string = %v, want no lines", got)
	}
}

func TestWrapExactFit(t *testing.T) {
	got := Wrap("ab cd", 5)
	want := []string{"ab cd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapCollapsesRuns(t *testing.T) {
	got := Wrap("a   b", 10)
	want := []string{"a b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestWrapNonPositiveWidth(t *testing.T) {
	got := Wrap("anything at all", 0)
	want := []string{"anything at all"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}
