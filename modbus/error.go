package modbus

import (
	"errors"
)

var (
	// ErrIO the transport failed to read or write.
	ErrIO = errors.New("modbus: transport i/o failure")
	// ErrTimeout the transport delivered no data before its read timeout.
	ErrTimeout = errors.New("modbus: response timeout")
	// ErrCRCMismatch the response checksum does not match its content.
	ErrCRCMismatch = errors.New("modbus: response crc mismatch")
	// ErrInvalidLength the response byte count field is not the expected one.
	ErrInvalidLength = errors.New("modbus: invalid response length")
	// ErrAddressMismatch the response comes from another device address.
	ErrAddressMismatch = errors.New("modbus: response address mismatch")
	// ErrFunctionMismatch the response carries another function code.
	ErrFunctionMismatch = errors.New("modbus: response function mismatch")
	// ErrEchoMismatch a write echo does not repeat the written register or value.
	ErrEchoMismatch = errors.New("modbus: write echo mismatch")
)
