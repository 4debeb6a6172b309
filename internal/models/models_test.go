package models

import (
	"errors"
	"testing"
)

func TestStringArrayParsesPostgresLiteral(t *testing.T) {
	var tags StringArray
	if err := tags.Scan([]byte(`{go,"food & dining","say \"hi\"","a,b"}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"go", "food & dining", `say "hi"`, "a,b"}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags: %#v", len(tags), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tag %d = %q, want %q", i, tags[i], want[i])
		}
	}

	v, err := tags.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var again StringArray
	if err := again.Scan(v); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if again[2] != `say "hi"` || again[3] != "a,b" {
		t.Fatalf("value literal lost data: %#v", again)
	}
}

func TestStringArrayEmptyAndNil(t *testing.T) {
	var tags StringArray
	if err := tags.Scan(nil); err != nil || len(tags) != 0 {
		t.Fatalf("nil scan = %#v, %v", tags, err)
	}
	if err := tags.Scan("{}"); err != nil || len(tags) != 0 {
		t.Fatalf("empty scan = %#v, %v", tags, err)
	}
	if err := tags.Scan("not-an-array"); err == nil {
		t.Fatalf("expected malformed literal error")
	}
}

func TestUserSaveHookHashesPendingPassword(t *testing.T) {
	u := &User{Email: "  Alice@Example.COM "}
	u.SetPassword("S3cret!pass")

	if err := u.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Password == "" || u.Password == "S3cret!pass" {
		t.Fatalf("password not hashed: %q", u.Password)
	}
	if !u.CheckPassword("S3cret!pass") || u.CheckPassword("wrong") {
		t.Fatalf("CheckPassword mismatch")
	}
	if u.Role != RoleUser || u.Provider != ProviderLocal {
		t.Fatalf("defaults not applied: role=%q provider=%q", u.Role, u.Provider)
	}

	hash := u.Password
	if err := u.BeforeSave(nil); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if u.Password != hash {
		t.Fatalf("unchanged password must not be rehashed")
	}
}

func TestUserSaveHookRequiresPassword(t *testing.T) {
	u := &User{Email: "nopass@example.com"}
	if err := u.BeforeSave(nil); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestLedgerEnums(t *testing.T) {
	if !IsExpenseCategory("Food & Dining") || IsExpenseCategory("Salary") {
		t.Fatalf("expense category check wrong")
	}
	if !IsIncomeCategory("Salary") || IsIncomeCategory("Travel") {
		t.Fatalf("income category check wrong")
	}
	if !IsPaymentMethod("UPI") || IsPaymentMethod("Cheque") {
		t.Fatalf("payment method check wrong")
	}
	if !FrequencyMonthly.Valid() || Frequency("Hourly").Valid() {
		t.Fatalf("frequency check wrong")
	}
}
