// Package modbustest provides an in-memory serial port for testing code
// built on the modbus package.
package modbustest

import (
	"bytes"

	"github.com/watercontroller/tankmon/modbus"
)

// Port is a scripted byte stream. Bytes queued with Reply are handed out to
// readers at most Chunk bytes at a time; once they are exhausted a Read
// returns no data and no error, which the client treats as a timeout.
// Everything written is recorded per Write call.
type Port struct {
	// Chunk limits the bytes returned by one Read, 0 means unlimited.
	Chunk int
	// ReadErr, when set, is returned by every Read once the queue is empty.
	ReadErr error
	// WriteErr, when set, is returned by every Write.
	WriteErr error

	rx     bytes.Buffer
	writes [][]byte
	reads  int
}

// Reply queues bytes to be read.
func (p *Port) Reply(b ...byte) *Port {
	p.rx.Write(b)
	return p
}

// ReplyFrame queues b followed by its CRC.
func (p *Port) ReplyFrame(b ...byte) *Port {
	return p.Reply(Frame(b...)...)
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	p.reads++
	if p.rx.Len() == 0 {
		if p.ReadErr != nil {
			return 0, p.ReadErr
		}
		return 0, nil
	}
	if p.Chunk > 0 && len(b) > p.Chunk {
		b = b[:p.Chunk]
	}
	return p.rx.Read(b)
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	return len(b), nil
}

// Writes returns the recorded writes.
func (p *Port) Writes() [][]byte { return p.writes }

// Reads returns the number of Read calls.
func (p *Port) Reads() int { return p.reads }

// Pending returns the number of queued bytes not read yet.
func (p *Port) Pending() int { return p.rx.Len() }

// Frame returns b followed by its Modbus CRC, low byte first.
func Frame(b ...byte) []byte {
	crc := modbus.CRC16(b)
	return append(append([]byte(nil), b...), byte(crc), byte(crc>>8))
}
