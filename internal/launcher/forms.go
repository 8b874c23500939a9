package launcher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dcrodman/mirlauncher/internal/packets"
)

const (
	minAccountLength  = 3
	minPasswordLength = 3

	// Sent in place of a national ID number, which the servers do not check.
	fixedSSNo = "650101-1455111"
	// Sent for blank security questions and answers when recovering a password.
	blankRecoveryField = "test"
)

var (
	ErrAccountTooShort         = errors.New("launcher: account must be at least 3 characters")
	ErrPasswordTooShort        = errors.New("launcher: password must be at least 3 characters")
	ErrPasswordMismatch        = errors.New("launcher: passwords do not match")
	ErrMissingField            = errors.New("launcher: required field is empty")
	ErrMissingSecurityQuestion = errors.New("launcher: at least one security question and answer is required")
	ErrInvalidBirthday         = errors.New("launcher: birthday must be a valid yyyy/mm/dd date")
)

// NewAccountForm is what a user enters to register an account.
type NewAccountForm struct {
	Account     string
	Password    string
	Confirm     string
	Birthday    string
	Quiz1       string
	Answer1     string
	Quiz2       string
	Answer2     string
	Email       string
	Phone       string
	MobilePhone string
}

// Records validates f and returns the account records to send.
func (f NewAccountForm) Records() (packets.UserEntry, packets.UserEntryAdd, error) {
	account := strings.ToLower(strings.TrimSpace(f.Account))
	quiz1, answer1 := strings.TrimSpace(f.Quiz1), strings.TrimSpace(f.Answer1)
	quiz2, answer2 := strings.TrimSpace(f.Quiz2), strings.TrimSpace(f.Answer2)
	birthday := strings.TrimSpace(f.Birthday)

	switch {
	case len([]rune(account)) < minAccountLength:
		return packets.UserEntry{}, packets.UserEntryAdd{}, ErrAccountTooShort
	case !ValidBirthday(birthday):
		return packets.UserEntry{}, packets.UserEntryAdd{}, fmt.Errorf("%w: %q", ErrInvalidBirthday, birthday)
	case len([]rune(f.Password)) < minPasswordLength:
		return packets.UserEntry{}, packets.UserEntryAdd{}, ErrPasswordTooShort
	case f.Password != f.Confirm:
		return packets.UserEntry{}, packets.UserEntryAdd{}, ErrPasswordMismatch
	case quiz1 == "" || answer1 == "" || quiz2 == "" || answer2 == "":
		return packets.UserEntry{}, packets.UserEntryAdd{}, ErrMissingSecurityQuestion
	}

	entry := packets.UserEntry{
		Account:  account,
		Password: f.Password,
		UserName: account,
		SSNo:     fixedSSNo,
		Phone:    f.Phone,
		Quiz:     quiz1,
		Answer:   answer1,
		EMail:    strings.TrimSpace(f.Email),
	}
	add := packets.UserEntryAdd{
		Quiz2:       quiz2,
		Answer2:     answer2,
		BirthDay:    birthday,
		MobilePhone: f.MobilePhone,
	}
	return entry, add, nil
}

// ValidBirthday reports whether s is a year/month/day date the login server
// accepts. Only the ranges of the parts are checked.
func ValidBirthday(s string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' })
	numbers := [3]int{}
	for i := 0; i < len(parts) && i < len(numbers); i++ {
		// Unparseable parts count as zero and fail the range checks.
		numbers[i], _ = strconv.Atoi(strings.TrimSpace(parts[i]))
	}
	y, m, d := numbers[0], numbers[1], numbers[2]
	return y > 1890 && y <= 2101 && m >= 1 && m <= 12 && d >= 1 && d <= 31
}

// ChangePasswordForm is what a user enters to change a password.
type ChangePasswordForm struct {
	Account     string
	Password    string
	NewPassword string
	Confirm     string
}

func (f ChangePasswordForm) validate() (account, password, newPassword string, err error) {
	account = strings.TrimSpace(f.Account)
	password = strings.TrimSpace(f.Password)
	newPassword = strings.TrimSpace(f.NewPassword)

	switch {
	case account == "":
		err = fmt.Errorf("%w: account", ErrMissingField)
	case password == "":
		err = fmt.Errorf("%w: password", ErrMissingField)
	case newPassword == "":
		err = fmt.Errorf("%w: new password", ErrMissingField)
	case newPassword != strings.TrimSpace(f.Confirm):
		err = ErrPasswordMismatch
	}
	return account, password, newPassword, err
}

// RecoverForm is what a user enters to recover a forgotten password.
type RecoverForm struct {
	Account  string
	Quiz1    string
	Answer1  string
	Quiz2    string
	Answer2  string
	Birthday string
}

// validate returns the trimmed form with blank questions and answers filled
// in.
func (f RecoverForm) validate() (RecoverForm, error) {
	out := RecoverForm{
		Account:  strings.TrimSpace(f.Account),
		Quiz1:    strings.TrimSpace(f.Quiz1),
		Answer1:  strings.TrimSpace(f.Answer1),
		Quiz2:    strings.TrimSpace(f.Quiz2),
		Answer2:  strings.TrimSpace(f.Answer2),
		Birthday: strings.TrimSpace(f.Birthday),
	}

	if out.Account == "" {
		return out, fmt.Errorf("%w: account", ErrMissingField)
	}
	if out.Quiz1 == "" && out.Answer1 == "" && out.Quiz2 == "" && out.Answer2 == "" {
		return out, ErrMissingSecurityQuestion
	}
	if out.Birthday == "" {
		return out, fmt.Errorf("%w: birthday", ErrMissingField)
	}

	for _, field := range []*string{&out.Quiz1, &out.Answer1, &out.Quiz2, &out.Answer2} {
		if *field == "" {
			*field = blankRecoveryField
		}
	}
	return out, nil
}
