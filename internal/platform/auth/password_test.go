package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "hunter2!") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
