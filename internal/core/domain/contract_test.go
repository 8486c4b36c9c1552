package domain

import "testing"

func TestComputeDigest_KnownVectors(t *testing.T) {
	cases := map[string]string{
		"":    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"abc": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	}
	for in, want := range cases {
		if got := ComputeDigest([]byte(in)); got != want {
			t.Fatalf("ComputeDigest(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestComputeDigest_Deterministic(t *testing.T) {
	content := []byte("%PDF-1.7 contract of sale")
	if ComputeDigest(content) != ComputeDigest(append([]byte(nil), content...)) {
		t.Fatal("digest of identical bytes differs")
	}
	if ComputeDigest(content) == ComputeDigest([]byte("%PDF-1.7 contract of salE")) {
		t.Fatal("digest of different bytes collides")
	}
}
