package auth_test

import (
	"context"
	"testing"
	"time"

	"corpsuite/internal/auth/adapter/security"
	"corpsuite/internal/auth/config"
	"corpsuite/internal/auth/testutil"

	"golang.org/x/crypto/bcrypt"
)

func BenchmarkPasswordHashing(b *testing.B) {
	password := []byte("SuperSecurePassword123!")
	for i := 0; i < b.N; i++ {
		_, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
		if err != nil {
			b.Fatalf("bcrypt error: %v", err)
		}
	}
}

func BenchmarkPasswordCompare(b *testing.B) {
	password := []byte("SuperSecurePassword123!")
	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		b.Fatalf("bcrypt error: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := bcrypt.CompareHashAndPassword(hash, password); err != nil {
			b.Fatalf("bcrypt compare error: %v", err)
		}
	}
}

func BenchmarkTokenGenerateValidate(b *testing.B) {
	svc, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "benchmark-secret-key-that-is-long-enough",
		JWTIssuer:      "corpsuite-bench",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		b.Fatalf("token service: %v", err)
	}

	user := testutil.NewUserFixture().ValidUser()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		token, err := svc.GenerateToken(ctx, user)
		if err != nil {
			b.Fatalf("generate: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, token); err != nil {
			b.Fatalf("validate: %v", err)
		}
	}
}
