package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	const token = "sufficiently-long-token"

	hash, err := HashToken(token)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if hash == token {
		t.Fatal("hash equals plaintext")
	}

	if !VerifyToken(hash, token) {
		t.Error("correct token rejected")
	}
	if VerifyToken(hash, "wrong-token-wrong-token") {
		t.Error("wrong token accepted")
	}
	if VerifyToken("", token) {
		t.Error("empty hash accepted a token")
	}
}

func TestHashTokenRejectsShortTokens(t *testing.T) {
	if _, err := HashToken("short"); err == nil {
		t.Error("expected error for short token")
	}
}

func TestValidateToken(t *testing.T) {
	if err := ValidateToken("0123456789abcdef"); err != nil {
		t.Errorf("16 char token rejected: %v", err)
	}
	if err := ValidateToken("0123456789abcde"); err == nil {
		t.Error("15 char token accepted")
	}
}
