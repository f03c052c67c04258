package orchestrators

import (
	"context"
	"errors"
	"testing"
)

func TestExecuteChangePassword_Valid(t *testing.T) {
	store := newMockAccountStore(accountWithPassword(t, "coach@example.com", "secreta-muy-larga"))

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "secreta-muy-larga",
		NewPassword:     "otra-clave-distinta",
	}, ChangePasswordDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := store.accounts["coach@example.com"]
	if err := updated.CheckPassword("otra-clave-distinta"); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
	if err := updated.CheckPassword("secreta-muy-larga"); err == nil {
		t.Error("old password still verifies")
	}
}

func TestExecuteChangePassword_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   ChangePasswordInput
		wantErr error
	}{
		{
			name: "wrong current password",
			input: ChangePasswordInput{
				AccountID:       "acc-1",
				CurrentPassword: "no-es-esta",
				NewPassword:     "otra-clave-distinta",
			},
			wantErr: ErrCurrentPasswordWrong,
		},
		{
			name: "same password",
			input: ChangePasswordInput{
				AccountID:       "acc-1",
				CurrentPassword: "secreta-muy-larga",
				NewPassword:     "secreta-muy-larga",
			},
			wantErr: ErrNewPasswordSame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockAccountStore(accountWithPassword(t, "coach@example.com", "secreta-muy-larga"))
			err := ExecuteChangePassword(context.Background(), tt.input, ChangePasswordDeps{AccountStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			stored := store.accounts["coach@example.com"]
			if err := stored.CheckPassword("secreta-muy-larga"); err != nil {
				t.Errorf("stored password changed on failed attempt: %v", err)
			}
		})
	}
}

func TestExecuteChangePassword_TooShort(t *testing.T) {
	store := newMockAccountStore(accountWithPassword(t, "coach@example.com", "secreta-muy-larga"))

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "secreta-muy-larga",
		NewPassword:     "corta",
	}, ChangePasswordDeps{AccountStore: store})
	if err == nil {
		t.Fatal("expected error for short password")
	}
}
