package client

import (
	"context"
	"strings"

	"github.com/dcrodman/mirlauncher/internal/packets"
)

// SendNewAccount asks the server to register a new account.
func (s *Session) SendNewAccount(ctx context.Context, entry packets.UserEntry, add packets.UserEntryAdd) error {
	msg := packets.MakeDefaultMessage(packets.AddNewUserType, 0, 0, 0, 0)
	payload := packets.EncodeMessage(msg) +
		packets.EncodeBuffer(packets.EncodeUserEntry(entry)) +
		packets.EncodeBuffer(packets.EncodeUserEntryAdd(add))
	return s.SendFramed(ctx, payload)
}

// SendChangePassword asks the server to replace the password of account.
func (s *Session) SendChangePassword(ctx context.Context, account, password, newPassword string) error {
	msg := packets.MakeDefaultMessage(packets.ChangePasswordType, 0, 0, 0, 0)
	payload := packets.EncodeMessage(msg) +
		packets.EncodeString(strings.Join([]string{account, password, newPassword}, "\t"))
	return s.SendFramed(ctx, payload)
}

// SendGetBackPassword asks the server to reveal the password of account
// given the answers to its security questions.
func (s *Session) SendGetBackPassword(ctx context.Context, account, quiz1, answer1, quiz2, answer2, birthday string) error {
	msg := packets.MakeDefaultMessage(packets.GetBackPasswordType, 0, 0, 0, 0)
	fields := []string{account, quiz1, answer1, quiz2, answer2, birthday}
	payload := packets.EncodeMessage(msg) + packets.EncodeString(strings.Join(fields, "\t"))
	return s.SendFramed(ctx, payload)
}
