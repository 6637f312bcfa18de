package util

import (
	"testing"
	"time"

	"drouple_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		ChurchID:  3,
		Role:      model.Leader,
		Email:     "leader@example.com",
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", claims.UserID)
	}
	if claims.ChurchID != 3 {
		t.Fatalf("expected church id 3, got %d", claims.ChurchID)
	}
	if claims.Role != model.Leader {
		t.Fatalf("expected role leader, got %s", claims.Role)
	}
	if claims.Email != "leader@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}

	token, err := GenerateJWT(user, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Fatal("expected error for expired token")
	}
}
