package service

import "testing"

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword("s3cret-pass", hash) {
		t.Fatalf("verify rejected the original plaintext")
	}
	if VerifyPassword("wrong-pass", hash) {
		t.Fatalf("verify accepted a different plaintext")
	}
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same input are equal; salt not randomized")
	}
	if !VerifyPassword("same-input", first) || !VerifyPassword("same-input", second) {
		t.Fatalf("both hashes must verify against the input")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// A broken stored hash must look exactly like a password mismatch.
	for _, hashed := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		if VerifyPassword("anything", hashed) {
			t.Fatalf("verify accepted malformed hash %q", hashed)
		}
	}
}
