package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goburrow/serial"
)

// RTUClient reads and writes single holding registers over a byte stream.
// It owns the transport exclusively and is not safe for concurrent use.
// Each call performs exactly one request/response exchange; retrying is left
// to the caller.
type RTUClient struct {
	clogs
	port     io.ReadWriter
	baudRate int
	sleep    func(time.Duration)
}

// NewRTUClient allocates and initializes a RTUClient on port.
// The port must have a finite read timeout so that a silent device ends in
// ErrTimeout instead of a blocked read.
func NewRTUClient(port io.ReadWriter, opts ...ClientOption) *RTUClient {
	c := &RTUClient{
		port:  port,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadHoldingRegister reads one holding register of device slaveID.
// Request:
//  Slave Id              : 1 byte
//  Function code         : 1 byte (0x03)
//  Starting address      : 2 bytes
//  Quantity of registers : 2 bytes (0x0001)
// Response:
//  Slave Id              : 1 byte
//  Function code         : 1 byte (0x03)
//  Byte count            : 1 byte (0x02)
//  Register value        : 2 bytes
func (sf *RTUClient) ReadHoldingRegister(slaveID byte, address uint16) (uint16, error) {
	var frame [rtuRequestSize]byte

	request := ProtocolDataUnit{
		FuncCode: FuncCodeReadHoldingRegisters,
		Data:     uint162Bytes(address, 1),
	}
	aduRequest, err := encodeRTUFrame(frame[:0], slaveID, request)
	if err != nil {
		return 0, err
	}
	aduResponse, err := sf.roundTrip(aduRequest, rtuReadResponseSize)
	if err != nil {
		return 0, err
	}
	rspSlaveID, response, err := decodeRTUFrame(aduResponse)
	if err != nil {
		sf.Errorf("read register 0x%04x: %v", address, err)
		return 0, err
	}
	if err = verify(slaveID, rspSlaveID, request, response); err != nil {
		return 0, err
	}
	if len(response.Data) != 3 || response.Data[0] != 2 {
		return 0, fmt.Errorf("%w: byte count '%v' does not match '2'", ErrInvalidLength, response.Data[0])
	}
	return binary.BigEndian.Uint16(response.Data[1:]), nil
}

// WriteSingleRegister writes one holding register of device slaveID.
// Request:
//  Slave Id              : 1 byte
//  Function code         : 1 byte (0x06)
//  Register address      : 2 bytes
//  Register value        : 2 bytes
// Response:
//  echo of the request
func (sf *RTUClient) WriteSingleRegister(slaveID byte, address, value uint16) error {
	var frame [rtuRequestSize]byte

	request := ProtocolDataUnit{
		FuncCode: FuncCodeWriteSingleRegister,
		Data:     uint162Bytes(address, value),
	}
	aduRequest, err := encodeRTUFrame(frame[:0], slaveID, request)
	if err != nil {
		return err
	}
	aduResponse, err := sf.roundTrip(aduRequest, rtuWriteResponseSize)
	if err != nil {
		return err
	}
	rspSlaveID, response, err := decodeRTUFrame(aduResponse)
	if err != nil {
		sf.Errorf("write register 0x%04x: %v", address, err)
		return err
	}
	if err = verify(slaveID, rspSlaveID, request, response); err != nil {
		return err
	}
	if len(response.Data) != 4 {
		return fmt.Errorf("%w: write echo data size '%v' does not match '4'", ErrInvalidLength, len(response.Data))
	}
	if respAddr := binary.BigEndian.Uint16(response.Data); respAddr != address {
		return fmt.Errorf("%w: register '%v' does not match request '%v'", ErrEchoMismatch, respAddr, address)
	}
	if respValue := binary.BigEndian.Uint16(response.Data[2:]); respValue != value {
		return fmt.Errorf("%w: value '%v' does not match request '%v'", ErrEchoMismatch, respValue, value)
	}
	return nil
}

// roundTrip sends aduRequest and reads a response of responseSize bytes.
// An exception frame is shorter than any regular response, so the first
// rtuExceptionSize bytes are read on their own and a CRC-valid exception
// frame is returned without waiting for the rest.
func (sf *RTUClient) roundTrip(aduRequest []byte, responseSize int) ([]byte, error) {
	if d := sf.frameDelay(); d > 0 {
		sf.sleep(d)
	}

	sf.Debugf("sending [% x]", aduRequest)
	if _, err := sf.port.Write(aduRequest); err != nil {
		sf.Errorf("write frame: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	var data [rtuAduMaxSize]byte
	if err := sf.readFull(data[:rtuExceptionSize]); err != nil {
		return nil, err
	}
	if data[1]&exceptionBit != 0 &&
		CRC16(data[:rtuExceptionSize-2]) == binary.LittleEndian.Uint16(data[rtuExceptionSize-2:]) {
		sf.Debugf("received [% x]", data[:rtuExceptionSize])
		return data[:rtuExceptionSize], nil
	}
	if err := sf.readFull(data[rtuExceptionSize:responseSize]); err != nil {
		return nil, err
	}
	sf.Debugf("received [% x]", data[:responseSize])
	return data[:responseSize], nil
}

// readFull reads exactly len(buf) bytes.
// A read that delivers nothing is a timeout; any other failure is ErrIO.
func (sf *RTUClient) readFull(buf []byte) error {
	for pos := 0; pos < len(buf); {
		n, err := sf.port.Read(buf[pos:])
		pos += n
		switch {
		case err != nil && pos >= len(buf):
			return nil
		case err != nil && isTimeout(err):
			return fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, pos, len(buf))
		case err != nil:
			sf.Errorf("read frame: %v", err)
			return fmt.Errorf("%w: %w", ErrIO, err)
		case n == 0:
			return fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, pos, len(buf))
		}
	}
	return nil
}

// frameDelay roughly calculates the silent interval (3.5 characters) that
// must precede a frame.
// See MODBUS over Serial Line - Specification and Implementation Guide (page 13).
func (sf *RTUClient) frameDelay() time.Duration {
	switch {
	case sf.baudRate <= 0:
		return 0
	case sf.baudRate > 19200:
		return 1750 * time.Microsecond
	default:
		return time.Duration(35000000/sf.baudRate) * time.Microsecond
	}
}

// encodeRTUFrame appends slaveID, pdu and the CRC to dst.
//  Slave Address   : 1 byte
//  ---- data Unit ----
//  Function        : 1 byte
//  Data            : 0 up to 252 bytes
//  ---- checksum ----
//  CRC             : 2 byte
func encodeRTUFrame(dst []byte, slaveID byte, pdu ProtocolDataUnit) ([]byte, error) {
	length := len(pdu.Data) + 4
	if length > rtuAduMaxSize {
		return nil, fmt.Errorf("modbus: length of data '%v' must not be bigger than '%v'", length, rtuAduMaxSize)
	}
	adu := append(dst[:0], slaveID, pdu.FuncCode)
	adu = append(adu, pdu.Data...)
	checksum := CRC16(adu)
	return append(adu, byte(checksum), byte(checksum>>8)), nil
}

// decodeRTUFrame extracts slaveID and PDU from RTU frame and verify CRC.
func decodeRTUFrame(adu []byte) (uint8, ProtocolDataUnit, error) {
	if len(adu) < rtuAduMinSize { // Minimum size (including address, funcCode and CRC)
		return 0, ProtocolDataUnit{}, fmt.Errorf("%w: response length '%v' does not meet minimum '%v'",
			ErrInvalidLength, len(adu), rtuAduMinSize)
	}
	// Calculate checksum
	crc, expect := CRC16(adu[:len(adu)-2]), binary.LittleEndian.Uint16(adu[len(adu)-2:])
	if crc != expect {
		return 0, ProtocolDataUnit{}, fmt.Errorf("%w: received '%04x', calculated '%04x'", ErrCRCMismatch, expect, crc)
	}
	// slaveID & PDU but pass crc
	return adu[0], ProtocolDataUnit{adu[1], adu[2 : len(adu)-2]}, nil
}

// verify confirms a CRC-valid response answers the request.
// The exception bit is checked first, then slave id and function code.
func verify(reqSlaveID, rspSlaveID uint8, reqPDU, rspPDU ProtocolDataUnit) error {
	switch {
	case rspPDU.FuncCode&exceptionBit != 0:
		return responseError(rspPDU)
	case reqSlaveID != rspSlaveID:
		return fmt.Errorf("%w: response slave id '%v' does not match request '%v'",
			ErrAddressMismatch, rspSlaveID, reqSlaveID)
	case rspPDU.FuncCode != reqPDU.FuncCode:
		return fmt.Errorf("%w: response function '%v' does not match request '%v'",
			ErrFunctionMismatch, rspPDU.FuncCode, reqPDU.FuncCode)
	case len(rspPDU.Data) == 0:
		return fmt.Errorf("%w: response data is empty", ErrInvalidLength)
	}
	return nil
}

func responseError(response ProtocolDataUnit) error {
	mbError := &ExceptionError{}
	if len(response.Data) > 0 {
		mbError.ExceptionCode = response.Data[0]
	}
	return mbError
}

// isTimeout reports whether a transport error means "no data arrived".
func isTimeout(err error) bool {
	if errors.Is(err, serial.ErrTimeout) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, io.EOF) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func uint162Bytes(value ...uint16) []byte {
	data := make([]byte, 2*len(value))
	for i, v := range value {
		binary.BigEndian.PutUint16(data[i*2:], v)
	}
	return data
}
