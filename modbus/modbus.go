/*!
 * Constants which defines the format of a modbus RTU frame as used by the
 * register client. Note that the Modbus PDU is not dependent on the
 * underlying transport.
 *
 * <code>
 * <------------------------ MODBUS SERIAL LINE ADU (1) ------------------->
 *              <----------- MODBUS PDU (1') ---------------->
 *  +-----------+---------------+----------------------------+-------------+
 *  | Address   | Function Code | Data                       | CRC         |
 *  +-----------+---------------+----------------------------+-------------+
 *  |           |               |                                   |
 * (2)        (3/2')           (3')                                (4)
 *
 * (1)  ... rtuAduMaxSize    = 256
 * (2)  ... address offset   = 0
 * (3)  ... PDU offset       = 1
 * (4)  ... CRC size         = 2, low byte first
 *
 * read request   : addr 0x03 reg_hi reg_lo 0x00 0x01 crc_lo crc_hi   (8)
 * read response  : addr 0x03 0x02 val_hi val_lo crc_lo crc_hi        (7)
 * write request  : addr 0x06 reg_hi reg_lo val_hi val_lo crc_lo crc_hi (8)
 * write response : echo of the write request                         (8)
 * exception      : addr fc|0x80 code crc_lo crc_hi                   (5)
 * </code>
 */

/*
Package modbus provides a single-register Modbus RTU client over any byte
stream transport.
*/
package modbus

import (
	"fmt"
)

// proto address limit.
const (
	AddressBroadCast = 0
	AddressMin       = 1
	AddressMax       = 247
)

const (
	rtuAduMinSize = 4   // address(1) + funcCode(1) + crc(2)
	rtuAduMaxSize = 256 // address(1) + PDU(253) + crc(2)

	rtuExceptionSize     = 5 // address(1) + funcCode(1) + code(1) + crc(2)
	rtuRequestSize       = 8
	rtuReadResponseSize  = 7
	rtuWriteResponseSize = 8

	exceptionBit = 0x80
)

// Function Code
const (
	FuncCodeReadHoldingRegisters = 3
	FuncCodeWriteSingleRegister  = 6
)

// Exception Code
const (
	ExceptionCodeIllegalFunction                    = 1
	ExceptionCodeIllegalDataAddress                 = 2
	ExceptionCodeIllegalDataValue                   = 3
	ExceptionCodeServerDeviceFailure                = 4
	ExceptionCodeAcknowledge                        = 5
	ExceptionCodeServerDeviceBusy                   = 6
	ExceptionCodeNegativeAcknowledge                = 7
	ExceptionCodeMemoryParityError                  = 8
	ExceptionCodeGatewayPathUnavailable             = 10
	ExceptionCodeGatewayTargetDeviceFailedToRespond = 11
)

// ExceptionError implements error interface.
// ExceptionCode is the code reported by the device, verbatim.
type ExceptionError struct {
	ExceptionCode byte
}

// Error converts known modbus exception code to error message.
func (e *ExceptionError) Error() string {
	var name string
	switch e.ExceptionCode {
	case ExceptionCodeIllegalFunction:
		name = "illegal function"
	case ExceptionCodeIllegalDataAddress:
		name = "illegal data address"
	case ExceptionCodeIllegalDataValue:
		name = "illegal data value"
	case ExceptionCodeServerDeviceFailure:
		name = "server device failure"
	case ExceptionCodeAcknowledge:
		name = "acknowledge"
	case ExceptionCodeServerDeviceBusy:
		name = "server device busy"
	case ExceptionCodeNegativeAcknowledge:
		name = "negative acknowledge"
	case ExceptionCodeMemoryParityError:
		name = "memory parity error"
	case ExceptionCodeGatewayPathUnavailable:
		name = "gateway path unavailable"
	case ExceptionCodeGatewayTargetDeviceFailedToRespond:
		name = "gateway target device failed to respond"
	default:
		name = "unknown"
	}
	return fmt.Sprintf("modbus: exception '%v' (%s)", e.ExceptionCode, name)
}

// ProtocolDataUnit (PDU) is independent of underlying communication layers.
type ProtocolDataUnit struct {
	FuncCode byte
	Data     []byte
}

// LogProvider RFC5424 log message levels only Debug and Error
type LogProvider interface {
	Errorf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}
