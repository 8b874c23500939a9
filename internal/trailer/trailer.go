// Package trailer reads and writes the configuration block appended to the
// end of the launcher executable. The block is laid out as
//
//	[host bytes][picture][server records][header]
//
// so it can be found from the end of the file without any change to the
// executable itself. String fields are XORed with the low byte of the
// picture size.
package trailer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	// ErrNoContainer means the file carries no configuration block. Callers
	// generally fall back to defaults rather than treating it as a failure.
	ErrNoContainer          = errors.New("trailer: no embedded configuration")
	ErrSizeMismatch         = errors.New("trailer: declared configuration size does not fit the file")
	ErrTargetMissing        = errors.New("trailer: target file does not exist")
	ErrAlreadyContainerized = errors.New("trailer: target already carries an embedded configuration")
	ErrEmptyPicture         = errors.New("trailer: picture is empty")
	ErrTooManyServers       = errors.New("trailer: too many servers")
)

// ServerEntry is the plain text form of a ServerRecord.
type ServerEntry struct {
	Caption string
	Name    string
	Address string
	Port    string
	WebURL  string
	InfoURL string
	ShopURL string
}

// Container is a configuration block read from a file.
type Container struct {
	Header  Header
	Servers []ServerRecord
	Picture []byte
}

// Title returns the deciphered window title.
func (c *Container) Title() string {
	return decipherString(c.Header.Title, c.Header.key())
}

// DownloadURL returns the deciphered address of the remote server list.
func (c *Container) DownloadURL() string {
	return decipherString(c.Header.DownloadURL, c.Header.key())
}

// Server returns the deciphered server at index i.
func (c *Container) Server(i int) (ServerEntry, error) {
	if i < 0 || i >= len(c.Servers) {
		return ServerEntry{}, fmt.Errorf("trailer: server index %d out of range [0, %d)", i, len(c.Servers))
	}

	r, key := c.Servers[i], c.Header.key()
	return ServerEntry{
		Caption: decipherString(r.Caption, key),
		Name:    decipherString(r.Name, key),
		Address: decipherString(r.Address, key),
		Port:    decipherString(r.Port, key),
		WebURL:  decipherString(r.WebURL, key),
		InfoURL: decipherString(r.InfoURL, key),
		ShopURL: decipherString(r.ShopURL, key),
	}, nil
}

// ServerEntries deciphers every server in file order.
func (c *Container) ServerEntries() []ServerEntry {
	entries := make([]ServerEntry, 0, len(c.Servers))
	for i := range c.Servers {
		entry, _ := c.Server(i)
		entries = append(entries, entry)
	}
	return entries
}

// Read loads the configuration block at the end of the file at path. It
// returns ErrNoContainer when there is none.
func Read(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	size, header, err := readHeader(f)
	if err != nil {
		return nil, err
	}
	if !header.HasValidMarker() {
		return nil, ErrNoContainer
	}

	serversSize := int64(HeaderSize) + int64(ServerSize)*int64(header.ServerCount)
	trailerSize := serversSize + int64(header.PictureSize)
	if header.PictureSize < 0 || trailerSize <= 0 || trailerSize > size {
		return nil, fmt.Errorf("%w: %d bytes declared, file has %d", ErrSizeMismatch, trailerSize, size)
	}

	picture := make([]byte, header.PictureSize)
	if _, err := f.ReadAt(picture, size-trailerSize); err != nil {
		return nil, fmt.Errorf("error reading picture: %w", err)
	}

	records := make([]byte, ServerSize*int(header.ServerCount))
	if _, err := f.ReadAt(records, size-serversSize); err != nil {
		return nil, fmt.Errorf("error reading server records: %w", err)
	}

	servers := make([]ServerRecord, 0, header.ServerCount)
	for i := 0; i < int(header.ServerCount); i++ {
		record, err := parseServer(records[i*ServerSize : (i+1)*ServerSize])
		if err != nil {
			return nil, fmt.Errorf("error parsing server record %d: %w", i, err)
		}
		servers = append(servers, record)
	}

	return &Container{Header: header, Servers: servers, Picture: picture}, nil
}

// HasContainer reports whether the file at path already carries a
// configuration block.
func HasContainer(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	_, header, err := readHeader(f)
	if errors.Is(err, ErrNoContainer) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return header.HasValidMarker(), nil
}

// readHeader parses the last HeaderSize bytes of f and returns them along
// with the file size.
func readHeader(f *os.File) (int64, Header, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, Header{}, fmt.Errorf("error reading file info: %w", err)
	}
	size := info.Size()
	if size < HeaderSize {
		return size, Header{}, ErrNoContainer
	}

	raw := make([]byte, HeaderSize)
	if _, err := f.ReadAt(raw, size-HeaderSize); err != nil {
		return size, Header{}, fmt.Errorf("error reading header: %w", err)
	}
	header, err := parseHeader(raw)
	if err != nil {
		return size, Header{}, fmt.Errorf("error parsing header: %w", err)
	}
	return size, header, nil
}

// Options describe a configuration block to append.
type Options struct {
	Title       string
	DownloadURL string
	Servers     []ServerEntry
	Picture     []byte
	// Copy the target to <target>.bak before modifying it.
	Backup bool
}

// Append writes a configuration block to the end of the file at path. The
// file must exist and must not already carry a block. Nothing is written
// unless every precondition holds, and a failed write leaves the file at
// its original size.
func Append(path string, opts Options) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrTargetMissing, path)
	} else if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	has, err := HasContainer(path)
	if err != nil {
		return err
	} else if has {
		return ErrAlreadyContainerized
	}
	if len(opts.Picture) == 0 {
		return ErrEmptyPicture
	}
	if len(opts.Servers) > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrTooManyServers, len(opts.Servers))
	}

	if opts.Backup {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("error creating backup: %w", err)
		}
	}

	block := buildBlock(opts)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	if _, err := f.Write(block); err != nil {
		_ = f.Truncate(info.Size())
		_ = f.Close()
		return fmt.Errorf("error writing configuration: %w", err)
	}
	return f.Close()
}

// buildBlock serializes picture, server records and header in file order.
func buildBlock(opts Options) []byte {
	key := byte(len(opts.Picture))

	header := Header{
		Marker:      newMarker(),
		ServerCount: uint16(len(opts.Servers)),
		Title:       cipherString(opts.Title, titleLength, key),
		Version:     ShortString{MaxLength: versionLength},
		ExeType:     exeType,
		PictureSize: int32(len(opts.Picture)),
		NoticeSize:  0,
		DownloadURL: cipherString(opts.DownloadURL, downloadURLLength, key),
	}

	block := make([]byte, 0, len(opts.Picture)+ServerSize*len(opts.Servers)+HeaderSize)
	block = append(block, opts.Picture...)
	for _, s := range opts.Servers {
		record := ServerRecord{
			Name:    cipherString(s.Name, nameLength, key),
			Caption: cipherString(s.Caption, captionLength, key),
			Address: cipherString(s.Address, addressLength, key),
			Port:    cipherString(s.Port, portLength, key),
			WebURL:  cipherString(s.WebURL, urlLength, key),
			InfoURL: cipherString(s.InfoURL, urlLength, key),
			ShopURL: cipherString(s.ShopURL, urlLength, key),
		}
		block = append(block, record.marshal()...)
	}
	return append(block, header.marshal()...)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
