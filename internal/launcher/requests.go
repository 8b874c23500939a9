package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcrodman/mirlauncher/internal/core/client"
	"github.com/dcrodman/mirlauncher/internal/core/data"
	"github.com/dcrodman/mirlauncher/internal/packets"
)

// Minimum time between two submissions of the same request.
const (
	registerCooldown       = 5 * time.Second
	changePasswordCooldown = 5 * time.Second
	recoverCooldown        = 10 * time.Second
)

var (
	ErrTooFrequent  = errors.New("launcher: request sent too recently, try again later")
	ErrDisconnected = errors.New("launcher: disconnected before the server answered")
)

type requestKind int

const (
	registerRequest requestKind = iota + 1
	changePasswordRequest
	recoverRequest
)

func (k requestKind) String() string {
	switch k {
	case registerRequest:
		return "register"
	case changePasswordRequest:
		return "change-password"
	case recoverRequest:
		return "recover-password"
	default:
		return fmt.Sprintf("requestKind(%d)", int(k))
	}
}

// pendingRequest is the last request sent, used to attribute its answer.
type pendingRequest struct {
	kind    requestKind
	account string
	server  string
	// Session connection the request went out on.
	generation uint64
}

// Register validates f and asks the login server to create the account.
func (l *Launcher) Register(ctx context.Context, f NewAccountForm) error {
	if err := l.checkThrottle(registerRequest); err != nil {
		return err
	}
	if !l.Session.IsConnected() {
		return client.ErrNotConnected
	}
	entry, add, err := f.Records()
	if err != nil {
		return err
	}

	l.markSent(registerRequest, registerCooldown, entry.Account)
	return l.Session.SendNewAccount(ctx, entry, add)
}

// ChangePassword validates f and asks the login server to change the password.
func (l *Launcher) ChangePassword(ctx context.Context, f ChangePasswordForm) error {
	if err := l.checkThrottle(changePasswordRequest); err != nil {
		return err
	}
	if !l.Session.IsConnected() {
		return client.ErrNotConnected
	}
	account, password, newPassword, err := f.validate()
	if err != nil {
		return err
	}

	l.markSent(changePasswordRequest, changePasswordCooldown, account)
	return l.Session.SendChangePassword(ctx, account, password, newPassword)
}

// RecoverPassword validates f and asks the login server for the password.
func (l *Launcher) RecoverPassword(ctx context.Context, f RecoverForm) error {
	if err := l.checkThrottle(recoverRequest); err != nil {
		return err
	}
	if !l.Session.IsConnected() {
		return client.ErrNotConnected
	}
	form, err := f.validate()
	if err != nil {
		return err
	}

	l.markSent(recoverRequest, recoverCooldown, form.Account)
	return l.Session.SendGetBackPassword(ctx,
		form.Account, form.Quiz1, form.Answer1, form.Quiz2, form.Answer2, form.Birthday)
}

func (l *Launcher) checkThrottle(kind requestKind) error {
	if _, found := l.throttle.Get(kind.String()); found {
		return ErrTooFrequent
	}
	return nil
}

func (l *Launcher) markSent(kind requestKind, cooldown time.Duration, account string) {
	l.throttle.Set(kind.String(), time.Now(), cooldown)

	entry, _ := l.Selected()
	l.mu.Lock()
	l.pending = &pendingRequest{
		kind:       kind,
		account:    account,
		server:     entry.Caption,
		generation: l.Session.Generation(),
	}
	l.mu.Unlock()
}

// Outcome is how the login server answered a request.
type Outcome int

const (
	Registered Outcome = iota + 1
	AccountExists
	RegistrationFailed
	PasswordChanged
	PasswordChangeFailed
	PasswordRecovered
	PasswordRecoveryFailed
)

// Result is a decoded answer from the login server.
type Result struct {
	Outcome Outcome
	// Server supplied failure code.
	Code int32
	// Set for PasswordRecovered.
	Password string
	// Account the request was sent for, when known.
	Account string
}

// Success reports whether the request was carried out.
func (r Result) Success() bool {
	return r.Outcome == Registered || r.Outcome == PasswordChanged || r.Outcome == PasswordRecovered
}

// String is the message shown to the user.
func (r Result) String() string {
	switch r.Outcome {
	case Registered:
		return "注册成功。"
	case AccountExists:
		return fmt.Sprintf("账号“%s”已存在。", r.Account)
	case RegistrationFailed:
		if r.Code == -2 {
			return "注册失败。"
		}
		return fmt.Sprintf("注册失败，Code: %d", r.Code)
	case PasswordChanged:
		return "修改密码成功。"
	case PasswordChangeFailed:
		return fmt.Sprintf("修改密码失败，Code: %d", r.Code)
	case PasswordRecovered:
		return fmt.Sprintf("密码找回成功。\n您的密码为：%s", r.Password)
	case PasswordRecoveryFailed:
		return fmt.Sprintf("密码找回失败，Code: %d", r.Code)
	default:
		return fmt.Sprintf("Outcome(%d)", int(r.Outcome))
	}
}

// Interpret maps a message from the login server to a Result. Messages that
// answer none of the account requests are reported with false.
func Interpret(msg packets.DefaultMessage, body string) (Result, bool) {
	switch msg.Ident {
	case packets.NewIDSuccessType:
		return Result{Outcome: Registered}, true
	case packets.NewIDFailType:
		if msg.Recog == 0 {
			return Result{Outcome: AccountExists}, true
		}
		return Result{Outcome: RegistrationFailed, Code: msg.Recog}, true
	case packets.ChangePasswordSuccessType:
		return Result{Outcome: PasswordChanged}, true
	case packets.ChangePasswordFailType:
		return Result{Outcome: PasswordChangeFailed, Code: msg.Recog}, true
	case packets.GetBackPasswordSuccessType:
		return Result{Outcome: PasswordRecovered, Password: packets.DecodeString(body)}, true
	case packets.GetBackPasswordFailType:
		return Result{Outcome: PasswordRecoveryFailed, Code: msg.Recog}, true
	default:
		return Result{}, false
	}
}

// Await consumes session events until the login server answers a request,
// the connection drops, or the configured response timeout passes. Events
// left over from connections other than the one the pending request was sent
// on are skipped. Only one caller may wait at a time.
func (l *Launcher) Await(ctx context.Context) (Result, error) {
	if timeout := l.Config.Network.ResponseTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	generation := l.Session.Generation()
	l.mu.Lock()
	if l.pending != nil {
		generation = l.pending.generation
	}
	l.mu.Unlock()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-l.Session.Done():
			return Result{}, ErrDisconnected
		case e := <-l.Session.Events():
			if e.Generation != generation {
				continue
			}
			switch e.Type {
			case client.EventError:
				l.Logger.Warnf("login server connection error: %v", e.Err)
				lastErr = e.Err
			case client.EventDisconnected:
				if lastErr != nil {
					return Result{}, fmt.Errorf("%w: %v", ErrDisconnected, lastErr)
				}
				return Result{}, ErrDisconnected
			case client.EventPacket:
				result, ok := Interpret(e.Message, e.Body)
				if !ok {
					l.Logger.Debugf("ignoring %s from login server", packets.TypeName(e.Message.Ident))
					continue
				}
				return l.complete(result), nil
			}
		}
	}
}

// complete attributes result to the pending request and records successful
// account changes.
func (l *Launcher) complete(result Result) Result {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	if pending == nil {
		return result
	}
	result.Account = pending.account

	if l.DB == nil {
		return result
	}
	var err error
	switch result.Outcome {
	case Registered:
		err = data.RecordRegistration(l.DB, pending.account, pending.server, time.Now())
	case PasswordChanged:
		err = data.RecordPasswordChange(l.DB, pending.account, pending.server, time.Now())
	}
	if err != nil {
		l.Logger.Warnf("error recording %s for %s: %v", pending.kind, pending.account, err)
	}
	return result
}

// ResetThrottle forgets when requests were last sent.
func (l *Launcher) ResetThrottle() {
	l.throttle.Flush()
}
