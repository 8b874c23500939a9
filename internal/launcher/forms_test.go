package launcher

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"github.com/dcrodman/mirlauncher/internal/packets"
)

func TestValidBirthday(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1990/01/02", true},
		{"1891/1/1", true},
		{"2101/12/31", true},
		{"1890/01/01", false},
		{"2102/01/01", false},
		{"1990/13/01", false},
		{"1990/00/01", false},
		{"1990/01/32", false},
		{"1990/01", false},
		{"1990-01-02", false},
		{"abcd/01/02", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidBirthday(tt.in); got != tt.want {
			t.Errorf("ValidBirthday(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewAccountForm_Records(t *testing.T) {
	entry, add, err := validNewAccount.Records()
	if err != nil {
		t.Fatalf("Records() returned unexpected error: %v", err)
	}

	wantEntry := packets.UserEntry{
		Account:  "player",
		Password: "secret",
		UserName: "player",
		SSNo:     "650101-1455111",
		Quiz:     "q1",
		Answer:   "a1",
	}
	if diff := deep.Equal(wantEntry, entry); diff != nil {
		t.Errorf("Records() entry diff: %v", diff)
	}
	wantAdd := packets.UserEntryAdd{Quiz2: "q2", Answer2: "a2", BirthDay: "1990/01/02"}
	if diff := deep.Equal(wantAdd, add); diff != nil {
		t.Errorf("Records() add diff: %v", diff)
	}
}

func TestNewAccountForm_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *NewAccountForm)
		wantErr error
	}{
		{"short account", func(f *NewAccountForm) { f.Account = " ab  " }, ErrAccountTooShort},
		{"bad birthday", func(f *NewAccountForm) { f.Birthday = "1800/01/01" }, ErrInvalidBirthday},
		{"short password", func(f *NewAccountForm) { f.Password, f.Confirm = "ab", "ab" }, ErrPasswordTooShort},
		{"mismatched confirmation", func(f *NewAccountForm) { f.Confirm = "secret2" }, ErrPasswordMismatch},
		{"missing quiz", func(f *NewAccountForm) { f.Quiz1 = " " }, ErrMissingSecurityQuestion},
		{"missing answer", func(f *NewAccountForm) { f.Answer2 = "" }, ErrMissingSecurityQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validNewAccount
			tt.modify(&f)
			if _, _, err := f.Records(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Records() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChangePasswordForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    ChangePasswordForm
		wantErr error
	}{
		{"valid", ChangePasswordForm{Account: "a", Password: "b", NewPassword: "c", Confirm: " c "}, nil},
		{"missing account", ChangePasswordForm{Account: " ", Password: "b", NewPassword: "c", Confirm: "c"}, ErrMissingField},
		{"missing password", ChangePasswordForm{Account: "a", NewPassword: "c", Confirm: "c"}, ErrMissingField},
		{"missing new password", ChangePasswordForm{Account: "a", Password: "b"}, ErrMissingField},
		{"mismatch", ChangePasswordForm{Account: "a", Password: "b", NewPassword: "c", Confirm: "d"}, ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := tt.form.validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecoverForm_Validate(t *testing.T) {
	got, err := RecoverForm{Account: " player ", Answer2: "a2", Birthday: "1990/01/02"}.validate()
	if err != nil {
		t.Fatalf("validate() returned unexpected error: %v", err)
	}
	want := RecoverForm{Account: "player", Quiz1: "test", Answer1: "test", Quiz2: "test", Answer2: "a2", Birthday: "1990/01/02"}
	if diff := deep.Equal(want, got); diff != nil {
		t.Errorf("validate() diff: %v", diff)
	}

	if _, err := (RecoverForm{Account: "player", Birthday: "1990/01/02"}).validate(); !errors.Is(err, ErrMissingSecurityQuestion) {
		t.Errorf("validate() error = %v, want ErrMissingSecurityQuestion", err)
	}
	if _, err := (RecoverForm{Account: "player", Quiz1: "q"}).validate(); !errors.Is(err, ErrMissingField) {
		t.Errorf("validate() error = %v, want ErrMissingField", err)
	}
	if _, err := (RecoverForm{Quiz1: "q", Birthday: "1990/01/02"}).validate(); !errors.Is(err, ErrMissingField) {
		t.Errorf("validate() error = %v, want ErrMissingField", err)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name   string
		msg    packets.DefaultMessage
		body   string
		want   Result
		wantOK bool
	}{
		{"registered", packets.DefaultMessage{Ident: packets.NewIDSuccessType}, "", Result{Outcome: Registered}, true},
		{"account exists", packets.DefaultMessage{Ident: packets.NewIDFailType}, "", Result{Outcome: AccountExists}, true},
		{"registration failed", packets.DefaultMessage{Ident: packets.NewIDFailType, Recog: -2}, "", Result{Outcome: RegistrationFailed, Code: -2}, true},
		{"registration code", packets.DefaultMessage{Ident: packets.NewIDFailType, Recog: 3}, "", Result{Outcome: RegistrationFailed, Code: 3}, true},
		{"password changed", packets.DefaultMessage{Ident: packets.ChangePasswordSuccessType}, "", Result{Outcome: PasswordChanged}, true},
		{"password change failed", packets.DefaultMessage{Ident: packets.ChangePasswordFailType, Recog: -1}, "", Result{Outcome: PasswordChangeFailed, Code: -1}, true},
		{"password recovered", packets.DefaultMessage{Ident: packets.GetBackPasswordSuccessType}, packets.EncodeString("pw123"), Result{Outcome: PasswordRecovered, Password: "pw123"}, true},
		{"recovery failed", packets.DefaultMessage{Ident: packets.GetBackPasswordFailType, Recog: -3}, "", Result{Outcome: PasswordRecoveryFailed, Code: -3}, true},
		{"unrelated", packets.DefaultMessage{Ident: packets.PasswordFailType}, "", Result{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Interpret(tt.msg, tt.body)
			if ok != tt.wantOK {
				t.Fatalf("Interpret() ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := deep.Equal(tt.want, got); diff != nil {
				t.Errorf("Interpret() diff: %v", diff)
			}
		})
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Result{Outcome: AccountExists, Account: "player"}, "账号“player”已存在。"},
		{Result{Outcome: RegistrationFailed, Code: -2}, "注册失败。"},
		{Result{Outcome: RegistrationFailed, Code: 4}, "注册失败，Code: 4"},
		{Result{Outcome: PasswordRecovered, Password: "pw"}, "密码找回成功。\n您的密码为：pw"},
	}
	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
