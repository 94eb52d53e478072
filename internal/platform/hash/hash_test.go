package hash

import "testing"

func TestBytes(t *testing.T) {
	// echo -n "abc" | sha256sum
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Bytes([]byte("abc")); got != want {
		t.Fatalf("Bytes(abc)=%s want %s", got, want)
	}
}

func TestText_TrimsAndJoins(t *testing.T) {
	if Text(" a ", "b") != Text("a", "b\n") {
		t.Fatalf("fields must be trimmed before hashing")
	}
	if Text("a", "b") == Text("ab") {
		t.Fatalf("field boundaries must affect the hash")
	}
}
