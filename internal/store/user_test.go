package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)

	username := "user-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanUsers(t, db, username) })

	users := NewUserStore(db)

	created, err := users.Create(username, "hunter2hunter2", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if created.IsAdmin {
		t.Error("IsAdmin = true, want false")
	}

	byName, err := users.FindByUsername(username)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Fatalf("FindByUsername: got %+v", byName)
	}

	byID, err := users.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Username != username {
		t.Fatalf("FindByID: got %+v", byID)
	}
}

func TestUserFindByUsername_NotFoundIsNil(t *testing.T) {
	db := testDB(t)

	got, err := NewUserStore(db).FindByUsername("ghost-" + uuid.New().String())
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestUserCheckPassword(t *testing.T) {
	db := testDB(t)

	username := "pwcheck-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanUsers(t, db, username) })

	users := NewUserStore(db)
	u, err := users.Create(username, "correct horse", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !users.CheckPassword(u, "correct horse") {
		t.Error("CheckPassword rejected the right password")
	}
	if users.CheckPassword(u, "wrong battery") {
		t.Error("CheckPassword accepted the wrong password")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)

	username := "totp-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanUsers(t, db, username) })

	users := NewUserStore(db)
	u, err := users.Create(username, "some password", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := users.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := users.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	got, err := users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("TOTPSecret = %v", got.TOTPSecret)
	}
	if !got.TOTPEnabled {
		t.Error("TOTPEnabled = false after EnableTOTP")
	}
}
