package members

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ubqurrotul/koperasi-backend/pkg/auth"
	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secr",
		Issuer:            "koperasi-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// minimal argon cost so the suite stays fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.Exec(`CREATE TABLE members (
		id            text PRIMARY KEY,
		full_name     text NOT NULL,
		email         text NOT NULL,
		password_hash text NOT NULL,
		phone         text,
		address       text,
		role          text NOT NULL DEFAULT 'ORDINARY_MEMBER',
		status        text NOT NULL DEFAULT 'ACTIVE',
		join_date     date NOT NULL,
		avatar_url    text,
		created_at    datetime,
		updated_at    datetime
	)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	// expression index so sqlite reports the production constraint name
	// ("members_email_key") on violation, like the Postgres schema does
	if err := gdb.Exec(`CREATE UNIQUE INDEX members_email_key ON members(email || '')`).Error; err != nil {
		t.Fatalf("create unique index: %v", err)
	}

	svc, err := NewService(NewRepository(gdb), testJWTConfig(), testPasswordConfig())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func mustRegister(t *testing.T, svc Service, email string) uuid.UUID {
	t.Helper()
	member, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Siti Rahma",
		Email:    email,
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return member.ID
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	mustRegister(t, svc, "siti@koperasi.test")

	result, err := svc.Login(context.Background(), "SITI@koperasi.test", "rahasia-123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected access token")
	}

	claims, err := auth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.MemberID != result.Member.ID || claims.Role != enums.MemberRoleOrdinary {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	mustRegister(t, svc, "siti@koperasi.test")

	_, err := svc.Login(context.Background(), "siti@koperasi.test", "salah")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Login(context.Background(), "nobody@koperasi.test", "whatever")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	mustRegister(t, svc, "siti@koperasi.test")

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Penyusup",
		Email:    "siti@koperasi.test",
		Password: "rahasia-123",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestInactiveMemberCannotLogin(t *testing.T) {
	svc := newTestService(t)
	id := mustRegister(t, svc, "siti@koperasi.test")

	if _, err := svc.SetStatus(context.Background(), id, enums.MemberStatusInactive); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}

	_, err := svc.Login(context.Background(), "siti@koperasi.test", "rahasia-123")
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	id := mustRegister(t, svc, "siti@koperasi.test")
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, id, "salah", "rahasia-baru"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized on wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(ctx, id, "rahasia-123", "rahasia-baru"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	if _, err := svc.Login(ctx, "siti@koperasi.test", "rahasia-baru"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := newTestService(t)
	id := mustRegister(t, svc, "siti@koperasi.test")

	phone := "+6281234567890"
	updated, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("phone not updated: %+v", updated.Phone)
	}
	if updated.FullName != "Siti Rahma" {
		t.Fatalf("untouched name changed: %s", updated.FullName)
	}
}
