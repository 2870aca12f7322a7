package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "shopping",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID:   userID,
		UserType: enums.UserTypeAdmin,
		JTI:      "session-1",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.UserType != enums.UserTypeAdmin {
		t.Fatalf("unexpected user type %s", claims.UserType)
	}
	if claims.ID != "session-1" {
		t.Fatalf("unexpected jti %s", claims.ID)
	}
	if claims.Issuer != "shopping" {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
}

func TestMintGeneratesJTIWhenOmitted(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "shopping", ExpirationMinutes: 5}

	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeUser,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("expected generated uuid jti, got %q", claims.ID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "shopping", ExpirationMinutes: 1}
	past := time.Now().UTC().Add(-time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeUser,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "shopping", ExpirationMinutes: 5}
	token, err := MintAccessToken(mintCfg, time.Now().UTC(), AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeUser,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	parseCfg := config.JWTConfig{Secret: "other", Issuer: "shopping", ExpirationMinutes: 5}
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestMintRejectsInvalidUserType(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "shopping", ExpirationMinutes: 5}

	_, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserType("superuser"),
	})
	if err == nil {
		t.Fatal("expected invalid user type to be rejected")
	}
}
