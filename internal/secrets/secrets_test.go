package secrets

import (
	"errors"
	"testing"

	"offer-export/internal/config"

	"github.com/zalando/go-keyring"
)

func TestSetGet(t *testing.T) {
	keyring.MockInit()

	if _, err := Get("db_password"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := Set("db_password", []byte("s3cret")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := Get("db_password")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "s3cret" {
		t.Fatalf("expected s3cret, got %q", got)
	}
	if err := Set("db_password", []byte("rotated")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = Get("db_password")
	if err != nil || string(got) != "rotated" {
		t.Fatalf("expected overwritten value, got %q, %v", got, err)
	}
}

func TestApplyDBPassword(t *testing.T) {
	keyring.MockInit()

	base := config.Default().DB
	base.User = "reporter"

	t.Run("disabled leaves password alone", func(t *testing.T) {
		db := base
		if err := ApplyDBPassword(&db); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if db.Password != "" {
			t.Fatalf("expected empty password, got %q", db.Password)
		}
	})

	t.Run("missing entry stays empty", func(t *testing.T) {
		db := base
		db.PasswordFromKeyring = true
		if err := ApplyDBPassword(&db); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if db.Password != "" {
			t.Fatalf("expected empty password, got %q", db.Password)
		}
	})

	t.Run("explicit password is remembered", func(t *testing.T) {
		db := base
		db.PasswordFromKeyring = true
		db.Password = "from-env"
		if err := ApplyDBPassword(&db); err != nil {
			t.Fatalf("apply: %v", err)
		}

		next := base
		next.PasswordFromKeyring = true
		if err := ApplyDBPassword(&next); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if next.Password != "from-env" {
			t.Fatalf("expected remembered password, got %q", next.Password)
		}
	})
}

func TestSanitizeKey(t *testing.T) {
	if got := sanitizeKey("  "); got != "empty" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := sanitizeKey("db password/pg"); got != "db_password_pg" {
		t.Fatalf("unexpected sanitized key %q", got)
	}
}
