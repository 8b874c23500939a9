package packets

import (
	"fmt"

	"github.com/dcrodman/mirlauncher/internal/core/bytes"
	"github.com/dcrodman/mirlauncher/internal/core/text"
)

const (
	UserEntrySize    = 161
	UserEntryAddSize = 109
)

// UserEntry is the main account record sent with AddNewUserType.
type UserEntry struct {
	Account  string
	Password string
	UserName string
	SSNo     string
	Phone    string
	Quiz     string
	Answer   string
	EMail    string
}

// UserEntryAdd is the secondary account record sent after UserEntry.
type UserEntryAdd struct {
	Quiz2       string
	Answer2     string
	BirthDay    string
	MobilePhone string
	Memo        string
	Memo2       string
}

// Wire layouts. Each field is a length byte followed by its capacity in
// zero padded GBK bytes.
type userEntryRecord struct {
	Account  [11]byte
	Password [11]byte
	UserName [21]byte
	SSNo     [20]byte
	Phone    [15]byte
	Quiz     [21]byte
	Answer   [21]byte
	EMail    [41]byte
}

type userEntryAddRecord struct {
	Quiz2       [21]byte
	Answer2     [21]byte
	BirthDay    [11]byte
	MobilePhone [14]byte
	Memo        [21]byte
	Memo2       [21]byte
}

// putField writes s into a length-prefixed field, truncating its GBK bytes
// to the field's capacity.
func putField(field []byte, s string) {
	encoded := text.EncodeTruncated(s, len(field)-1)
	field[0] = byte(len(encoded))
	copy(field[1:], encoded)
}

// getField reads a length-prefixed field. Lengths above the capacity are
// clamped.
func getField(field []byte) string {
	n := int(field[0])
	if n > len(field)-1 {
		n = len(field) - 1
	}
	return text.Decode(field[1 : 1+n])
}

// EncodeUserEntry returns the 161 byte wire form of entry.
func EncodeUserEntry(entry UserEntry) []byte {
	var r userEntryRecord
	putField(r.Account[:], entry.Account)
	putField(r.Password[:], entry.Password)
	putField(r.UserName[:], entry.UserName)
	putField(r.SSNo[:], entry.SSNo)
	putField(r.Phone[:], entry.Phone)
	putField(r.Quiz[:], entry.Quiz)
	putField(r.Answer[:], entry.Answer)
	putField(r.EMail[:], entry.EMail)

	b, _ := bytes.BytesFromStruct(&r)
	return b
}

// EncodeUserEntryAdd returns the 109 byte wire form of entry.
func EncodeUserEntryAdd(entry UserEntryAdd) []byte {
	var r userEntryAddRecord
	putField(r.Quiz2[:], entry.Quiz2)
	putField(r.Answer2[:], entry.Answer2)
	putField(r.BirthDay[:], entry.BirthDay)
	putField(r.MobilePhone[:], entry.MobilePhone)
	putField(r.Memo[:], entry.Memo)
	putField(r.Memo2[:], entry.Memo2)

	b, _ := bytes.BytesFromStruct(&r)
	return b
}

// DecodeUserEntry parses the wire form produced by EncodeUserEntry.
func DecodeUserEntry(b []byte) (UserEntry, error) {
	var r userEntryRecord
	if err := bytes.StructFromBytes(b, &r); err != nil {
		return UserEntry{}, fmt.Errorf("decoding user entry: %w", err)
	}
	return UserEntry{
		Account:  getField(r.Account[:]),
		Password: getField(r.Password[:]),
		UserName: getField(r.UserName[:]),
		SSNo:     getField(r.SSNo[:]),
		Phone:    getField(r.Phone[:]),
		Quiz:     getField(r.Quiz[:]),
		Answer:   getField(r.Answer[:]),
		EMail:    getField(r.EMail[:]),
	}, nil
}

// DecodeUserEntryAdd parses the wire form produced by EncodeUserEntryAdd.
func DecodeUserEntryAdd(b []byte) (UserEntryAdd, error) {
	var r userEntryAddRecord
	if err := bytes.StructFromBytes(b, &r); err != nil {
		return UserEntryAdd{}, fmt.Errorf("decoding user entry add: %w", err)
	}
	return UserEntryAdd{
		Quiz2:       getField(r.Quiz2[:]),
		Answer2:     getField(r.Answer2[:]),
		BirthDay:    getField(r.BirthDay[:]),
		MobilePhone: getField(r.MobilePhone[:]),
		Memo:        getField(r.Memo[:]),
		Memo2:       getField(r.Memo2[:]),
	}, nil
}
