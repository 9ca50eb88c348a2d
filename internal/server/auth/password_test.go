package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longpassword1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "longpassword1" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "longpassword1") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrongpassword") {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ")
	}
}
