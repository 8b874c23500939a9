package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/dcrodman/mirlauncher/internal/core/client"
	"github.com/dcrodman/mirlauncher/internal/packets"
)

// streamKey identifies one direction of a TCP connection.
type streamKey struct {
	network   gopacket.Flow
	transport gopacket.Flow
}

type analyzer struct {
	Writer  io.Writer
	Port    uint16
	Verbose bool

	streams map[streamKey]*client.FrameBuffer
	frames  int
}

// Run reads a pcap capture from r and prints every frame exchanged with the
// login server. Segments are taken in capture order; retransmitted or
// reordered segments are not reassembled.
func (a *analyzer) Run(r io.Reader) error {
	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return err
	}
	a.streams = make(map[streamKey]*client.FrameBuffer)

	source := gopacket.NewPacketSource(reader, reader.LinkType())
	for packet := range source.Packets() {
		a.handlePacket(packet)
	}
	fmt.Fprintf(a.Writer, "%d frames\n", a.frames)
	return nil
}

func (a *analyzer) handlePacket(packet gopacket.Packet) {
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil || packet.NetworkLayer() == nil {
		return
	}
	tcp := tcpLayer.(*layers.TCP)
	port := layers.TCPPort(a.Port)
	if tcp.SrcPort != port && tcp.DstPort != port {
		return
	}
	fromClient := tcp.DstPort == port

	key := streamKey{network: packet.NetworkLayer().NetworkFlow(), transport: tcp.TransportFlow()}
	if tcp.SYN || tcp.RST {
		delete(a.streams, key)
	}
	if len(tcp.Payload) == 0 {
		return
	}

	buf, ok := a.streams[key]
	if !ok {
		buf = &client.FrameBuffer{}
		a.streams[key] = buf
	}

	chunk := tcp.Payload
	if !fromClient {
		var keepAlive bool
		if chunk, keepAlive = client.StripKeepAlive(chunk); keepAlive {
			fmt.Fprintf(a.Writer, "%s  keep-alive\n", direction(key, fromClient))
		}
	} else if string(chunk) == "*" {
		fmt.Fprintf(a.Writer, "%s  keep-alive ack\n", direction(key, fromClient))
		return
	}

	buf.Write(chunk)
	for {
		frame, ok := buf.Next()
		if !ok {
			break
		}
		a.frames++
		a.printFrame(key, fromClient, frame)
	}
}

func (a *analyzer) printFrame(key streamKey, fromClient bool, frame string) {
	prefix := direction(key, fromClient)
	payload := frame
	if fromClient && len(payload) > 0 && payload[0] >= '1' && payload[0] <= '9' {
		prefix += fmt.Sprintf(" #%c", payload[0])
		payload = payload[1:]
	}

	if len(payload) < packets.DefBlockSize {
		fmt.Fprintf(a.Writer, "%s  (short frame) %q\n", prefix, payload)
		return
	}
	msg, err := packets.DecodeMessage(payload)
	if err != nil {
		fmt.Fprintf(a.Writer, "%s  (undecodable header) %v\n", prefix, err)
		return
	}
	body := payload[packets.DefBlockSize:]

	fmt.Fprintf(a.Writer, "%s  %s (%d) recog=%d param=%d tag=%d series=%d body=%d chars\n",
		prefix, packets.TypeName(msg.Ident), msg.Ident, msg.Recog, msg.Param, msg.Tag, msg.Series, len(body))

	if detail := describeBody(msg, body); detail != "" {
		fmt.Fprintf(a.Writer, "    %s\n", detail)
	}
	if a.Verbose {
		spew.Fdump(a.Writer, msg)
		if msg.Ident == packets.AddNewUserType {
			a.dumpNewAccount(body)
		}
	}
}

// describeBody returns a one-line summary of the body of messages that carry
// text.
func describeBody(msg packets.DefaultMessage, body string) string {
	switch msg.Ident {
	case packets.ChangePasswordType, packets.GetBackPasswordType, packets.GetBackPasswordSuccessType:
		fields := strings.Split(packets.DecodeString(body), "\t")
		return strings.Join(fields, " | ")
	case packets.AddNewUserType:
		entry, _, err := decodeNewAccount(body)
		if err != nil {
			return err.Error()
		}
		return "account: " + entry.Account
	default:
		return ""
	}
}

func decodeNewAccount(body string) (packets.UserEntry, packets.UserEntryAdd, error) {
	entryLen := len(packets.EncodeBuffer(make([]byte, packets.UserEntrySize)))
	if len(body) < entryLen {
		return packets.UserEntry{}, packets.UserEntryAdd{}, fmt.Errorf("account record is truncated")
	}

	raw, err := packets.DecodeBuffer(body[:entryLen], packets.UserEntrySize)
	if err != nil {
		return packets.UserEntry{}, packets.UserEntryAdd{}, err
	}
	entry, err := packets.DecodeUserEntry(raw)
	if err != nil {
		return packets.UserEntry{}, packets.UserEntryAdd{}, err
	}

	raw, err = packets.DecodeBuffer(body[entryLen:], packets.UserEntryAddSize)
	if err != nil {
		return entry, packets.UserEntryAdd{}, err
	}
	add, err := packets.DecodeUserEntryAdd(raw)
	return entry, add, err
}

func (a *analyzer) dumpNewAccount(body string) {
	entry, add, err := decodeNewAccount(body)
	if err != nil {
		return
	}
	spew.Fdump(a.Writer, entry, add)
}

func direction(key streamKey, fromClient bool) string {
	src, dst := key.network.Src(), key.network.Dst()
	sport, dport := key.transport.Src(), key.transport.Dst()
	arrow := "S->C"
	if fromClient {
		arrow = "C->S"
	}
	return fmt.Sprintf("%s %s:%s > %s:%s", arrow, src, sport, dst, dport)
}
