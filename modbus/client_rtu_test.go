package modbus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/goburrow/serial"
)

func Test_encodeRTUFrame(t *testing.T) {
	type args struct {
		slaveID byte
		pdu     ProtocolDataUnit
	}
	tests := []struct {
		name    string
		args    args
		want    []byte
		wantErr bool
	}{
		{
			"RTU encode",
			args{0x01, ProtocolDataUnit{0x03, []byte{0x01, 0x02, 0x03, 0x04, 0x05}}},
			[]byte{0x01, 0x03, 0x01, 0x02, 0x03, 0x04, 0x05, 0x05, 0x48},
			false,
		},
		{
			"read empty height",
			args{0x01, ProtocolDataUnit{FuncCodeReadHoldingRegisters, uint162Bytes(0x0001, 1)}},
			[]byte{0x01, 0x03, 0x00, 0x01, 0x00, 0x01, 0xD5, 0xCA},
			false,
		},
		{
			"write installation height",
			args{0x01, ProtocolDataUnit{FuncCodeWriteSingleRegister, uint162Bytes(0x0005, 1000)}},
			[]byte{0x01, 0x06, 0x00, 0x05, 0x03, 0xE8, 0x99, 0x75},
			false,
		},
		{
			"too long",
			args{0x01, ProtocolDataUnit{0x10, make([]byte, 253)}},
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeRTUFrame(make([]byte, 0, rtuAduMaxSize), tt.args.slaveID, tt.args.pdu)
			if (err != nil) != tt.wantErr {
				t.Errorf("encodeRTUFrame() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("encodeRTUFrame() = % x, want % x", got, tt.want)
			}
		})
	}
}

func Test_decodeRTUFrame(t *testing.T) {
	type args struct {
		adu []byte
	}
	tests := []struct {
		name    string
		args    args
		slaveID uint8
		pdu     ProtocolDataUnit
		wantErr error
	}{
		{
			"RTU decode",
			args{[]byte{0x01, 0x03, 0x01, 0x02, 0x03, 0x04, 0x05, 0x05, 0x48}},
			0x01,
			ProtocolDataUnit{0x03, []byte{0x01, 0x02, 0x03, 0x04, 0x05}},
			nil,
		},
		{
			"crc mismatch",
			args{[]byte{0x01, 0x03, 0x01, 0x02, 0x03, 0x04, 0x05, 0x48, 0x05}},
			0,
			ProtocolDataUnit{},
			ErrCRCMismatch,
		},
		{
			"too short",
			args{[]byte{0x01, 0x03, 0x01}},
			0,
			ProtocolDataUnit{},
			ErrInvalidLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSlaveID, gotPdu, err := decodeRTUFrame(tt.args.adu)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("decodeRTUFrame() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotSlaveID != tt.slaveID {
				t.Errorf("decodeRTUFrame() gotSlaveID = %v, want %v", gotSlaveID, tt.slaveID)
			}
			if !reflect.DeepEqual(gotPdu, tt.pdu) {
				t.Errorf("decodeRTUFrame() gotPdu = %v, want %v", gotPdu, tt.pdu)
			}
		})
	}
}

func Test_verify(t *testing.T) {
	type args struct {
		reqSlaveID uint8
		rspSlaveID uint8
		reqPDU     ProtocolDataUnit
		rspPDU     ProtocolDataUnit
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			"serial verify same",
			args{5, 5, ProtocolDataUnit{3, []byte{1, 2}}, ProtocolDataUnit{3, []byte{2, 0, 1}}},
			nil,
		},
		{
			"serial verify slaveID different",
			args{4, 5, ProtocolDataUnit{3, []byte{1, 2}}, ProtocolDataUnit{3, []byte{2, 0, 1}}},
			ErrAddressMismatch,
		},
		{
			"serial verify functionCode different",
			args{5, 5, ProtocolDataUnit{3, []byte{1, 2}}, ProtocolDataUnit{4, []byte{2, 0, 1}}},
			ErrFunctionMismatch,
		},
		{
			"serial verify pdu data zero length",
			args{5, 5, ProtocolDataUnit{3, []byte{}}, ProtocolDataUnit{3, []byte{}}},
			ErrInvalidLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verify(tt.args.reqSlaveID, tt.args.rspSlaveID, tt.args.reqPDU, tt.args.rspPDU); !errors.Is(err, tt.wantErr) {
				t.Errorf("verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_verify_exceptionFirst(t *testing.T) {
	// exception bit wins over a mismatching slave id
	err := verify(1, 9, ProtocolDataUnit{3, nil}, ProtocolDataUnit{0x83, []byte{0x02}})
	var mbErr *ExceptionError
	if !errors.As(err, &mbErr) {
		t.Fatalf("verify() error = %v, want *ExceptionError", err)
	}
	if mbErr.ExceptionCode != ExceptionCodeIllegalDataAddress {
		t.Errorf("ExceptionCode = %v, want %v", mbErr.ExceptionCode, ExceptionCodeIllegalDataAddress)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func Test_isTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serial timeout", serial.ErrTimeout, true},
		{"deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), true},
		{"eof", io.EOF, true},
		{"net style", timeoutErr{}, true},
		{"closed", io.ErrClosedPipe, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTimeout(tt.err); got != tt.want {
				t.Errorf("isTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRTUClient_frameDelay(t *testing.T) {
	tests := []struct {
		baud int
		want time.Duration
	}{
		{0, 0},
		{9600, 3645 * time.Microsecond},
		{19200, 1822 * time.Microsecond},
		{115200, 1750 * time.Microsecond},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.baud), func(t *testing.T) {
			c := NewRTUClient(nil, WithBaudRate(tt.baud))
			if got := c.frameDelay(); got != tt.want {
				t.Errorf("frameDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExceptionError_Error(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{ExceptionCodeIllegalDataAddress, "modbus: exception '2' (illegal data address)"},
		{0x42, "modbus: exception '66' (unknown)"},
	}
	for _, tt := range tests {
		if got := (&ExceptionError{tt.code}).Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func Benchmark_encodeRTUFrame(b *testing.B) {
	var buf [rtuAduMaxSize]byte
	pdu := ProtocolDataUnit{3, []byte{0, 1, 0, 1}}
	for i := 0; i < b.N; i++ {
		if _, err := encodeRTUFrame(buf[:0], 10, pdu); err != nil {
			b.Fatal(err)
		}
	}
}
