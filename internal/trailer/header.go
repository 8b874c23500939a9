package trailer

import (
	"bytes"

	corebytes "github.com/dcrodman/mirlauncher/internal/core/bytes"
	"github.com/dcrodman/mirlauncher/internal/encryption"
)

const (
	HeaderSize = 111
	ServerSize = 192

	// Capacities of the string fields.
	markerLength      = 20
	titleLength       = 20
	versionLength     = 5
	downloadURLLength = 50
	nameLength        = 20
	captionLength     = 20
	addressLength     = 15
	portLength        = 10
	urlLength         = 40

	markerKey = 1
	exeType   = 1
)

var markerBytes = encryption.XOR([]byte("ckdsmfvju"), markerKey)

// Header is the block at the very end of a containerized file.
type Header struct {
	Marker      ShortString
	ServerCount uint16
	Title       ShortString
	Version     ShortString
	ExeType     uint16
	PictureSize int32
	NoticeSize  int32
	DownloadURL ShortString
}

// ServerRecord is one ciphered server entry as stored on disk.
type ServerRecord struct {
	Name    ShortString
	Caption ShortString
	Address ShortString
	Port    ShortString
	WebURL  ShortString
	InfoURL ShortString
	ShopURL ShortString
}

// On-disk layouts.
type rawHeader struct {
	Marker      [markerLength + 1]byte
	ServerCount uint16
	Title       [titleLength + 1]byte
	Version     [versionLength + 1]byte
	ExeType     uint16
	PictureSize int32
	NoticeSize  int32
	DownloadURL [downloadURLLength + 1]byte
}

type rawServer struct {
	Name    [nameLength + 1]byte
	Caption [captionLength + 1]byte
	Address [addressLength + 1]byte
	Port    [portLength + 1]byte
	WebURL  [urlLength + 1]byte
	InfoURL [urlLength + 1]byte
	ShopURL [urlLength + 1]byte
}

func newMarker() ShortString {
	return ShortString{MaxLength: markerLength, Content: markerBytes}
}

// HasValidMarker reports whether h was written by Append.
func (h Header) HasValidMarker() bool {
	return bytes.Equal(h.Marker.Content, markerBytes)
}

// key returns the XOR key the string fields are ciphered with: the low byte
// of the picture size.
func (h Header) key() byte {
	return byte(h.PictureSize)
}

func (h Header) marshal() []byte {
	var raw rawHeader
	copy(raw.Marker[:], h.Marker.FieldBytes())
	raw.ServerCount = h.ServerCount
	copy(raw.Title[:], h.Title.FieldBytes())
	copy(raw.Version[:], h.Version.FieldBytes())
	raw.ExeType = h.ExeType
	raw.PictureSize = h.PictureSize
	raw.NoticeSize = h.NoticeSize
	copy(raw.DownloadURL[:], h.DownloadURL.FieldBytes())

	b, _ := corebytes.BytesFromStruct(&raw)
	return b
}

func parseHeader(b []byte) (Header, error) {
	var raw rawHeader
	if err := corebytes.StructFromBytes(b, &raw); err != nil {
		return Header{}, err
	}
	return Header{
		Marker:      ParseShortString(raw.Marker[:], markerLength),
		ServerCount: raw.ServerCount,
		Title:       ParseShortString(raw.Title[:], titleLength),
		Version:     ParseShortString(raw.Version[:], versionLength),
		ExeType:     raw.ExeType,
		PictureSize: raw.PictureSize,
		NoticeSize:  raw.NoticeSize,
		DownloadURL: ParseShortString(raw.DownloadURL[:], downloadURLLength),
	}, nil
}

func (r ServerRecord) marshal() []byte {
	var raw rawServer
	copy(raw.Name[:], r.Name.FieldBytes())
	copy(raw.Caption[:], r.Caption.FieldBytes())
	copy(raw.Address[:], r.Address.FieldBytes())
	copy(raw.Port[:], r.Port.FieldBytes())
	copy(raw.WebURL[:], r.WebURL.FieldBytes())
	copy(raw.InfoURL[:], r.InfoURL.FieldBytes())
	copy(raw.ShopURL[:], r.ShopURL.FieldBytes())

	b, _ := corebytes.BytesFromStruct(&raw)
	return b
}

func parseServer(b []byte) (ServerRecord, error) {
	var raw rawServer
	if err := corebytes.StructFromBytes(b, &raw); err != nil {
		return ServerRecord{}, err
	}
	return ServerRecord{
		Name:    ParseShortString(raw.Name[:], nameLength),
		Caption: ParseShortString(raw.Caption[:], captionLength),
		Address: ParseShortString(raw.Address[:], addressLength),
		Port:    ParseShortString(raw.Port[:], portLength),
		WebURL:  ParseShortString(raw.WebURL[:], urlLength),
		InfoURL: ParseShortString(raw.InfoURL[:], urlLength),
		ShopURL: ParseShortString(raw.ShopURL[:], urlLength),
	}, nil
}
