// Message definitions for the login server ("CS login") protocol.
package packets

const (
	// Size of a DefaultMessage before it is six-bit encoded.
	DefaultMessageSize = 12
	// Number of characters a DefaultMessage occupies once encoded.
	DefBlockSize = 16
	// Buffers at least this large are never encoded.
	BufferSize = 10000
)

// Message types sent by the launcher.
const (
	ProtocolType        = 2000
	IDPasswordType      = 2001
	AddNewUserType      = 2002
	ChangePasswordType  = 2003
	UpdateUserType      = 2004
	GetBackPasswordType = 2005
)

// Message types sent by the login server.
const (
	CertificationSuccessType   = 500
	CertificationFailType      = 501
	IDNotFoundType             = 502
	PasswordFailType           = 503
	NewIDSuccessType           = 504
	NewIDFailType              = 505
	ChangePasswordSuccessType  = 506
	ChangePasswordFailType     = 507
	GetBackPasswordSuccessType = 508
	GetBackPasswordFailType    = 509
)

// DefaultMessage is the fixed header at the start of every message. The
// meaning of Recog, Param, Tag and Series depends on Ident.
type DefaultMessage struct {
	Recog  int32
	Ident  uint16
	Param  uint16
	Tag    uint16
	Series uint16
}

// MakeDefaultMessage is a convenience constructor using the argument order
// the login server documents its messages with.
func MakeDefaultMessage(ident uint16, recog int32, param, tag, series uint16) DefaultMessage {
	return DefaultMessage{
		Recog:  recog,
		Ident:  ident,
		Param:  param,
		Tag:    tag,
		Series: series,
	}
}

var messageNames = map[uint16]string{
	ProtocolType:               "CM_PROTOCOL",
	IDPasswordType:             "CM_IDPASSWORD",
	AddNewUserType:             "CM_ADDNEWUSER",
	ChangePasswordType:         "CM_CHANGEPASSWORD",
	UpdateUserType:             "CM_UPDATEUSER",
	GetBackPasswordType:        "CM_GETBACKPASSWORD",
	CertificationSuccessType:   "SM_CERTIFICATION_SUCCESS",
	CertificationFailType:      "SM_CERTIFICATION_FAIL",
	IDNotFoundType:             "SM_ID_NOTFOUND",
	PasswordFailType:           "SM_PASSWD_FAIL",
	NewIDSuccessType:           "SM_NEWID_SUCCESS",
	NewIDFailType:              "SM_NEWID_FAIL",
	ChangePasswordSuccessType:  "SM_CHGPASSWD_SUCCESS",
	ChangePasswordFailType:     "SM_CHGPASSWD_FAIL",
	GetBackPasswordSuccessType: "SM_GETBACKPASSWD_SUCCESS",
	GetBackPasswordFailType:    "SM_GETBACKPASSWD_FAIL",
}

// TypeName returns the protocol name of a message type, or "UNKNOWN" for
// types this package doesn't define.
func TypeName(ident uint16) string {
	if name, ok := messageNames[ident]; ok {
		return name
	}
	return "UNKNOWN"
}
