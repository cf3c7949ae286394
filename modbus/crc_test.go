package modbus

import (
	"testing"
)

// crc16Bitwise is the reference definition the table must agree with.
func crc16Bitwise(bs []byte) uint16 {
	val := uint16(0xFFFF)
	for _, v := range bs {
		val ^= uint16(v)
		for i := 0; i < 8; i++ {
			if val&0x0001 != 0 {
				val = (val >> 1) ^ 0xA001
			} else {
				val >>= 1
			}
		}
	}
	return val
}

func TestCRC16(t *testing.T) {
	type args struct {
		bs []byte
	}
	tests := []struct {
		name string
		args args
		want uint16
	}{
		{"crc16 ", args{[]byte{0x01, 0x02, 0x03, 0x04, 0x05}}, 0xbb2a},
		{"read empty height", args{[]byte{0x01, 0x03, 0x00, 0x01, 0x00, 0x01}}, 0xCAD5},
		{"write installation height 1000cm", args{[]byte{0x01, 0x06, 0x00, 0x05, 0x03, 0xE8}}, 0x7599},
		{"empty", args{nil}, 0xFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC16(tt.args.bs); got != tt.want {
				t.Errorf("CRC16() = %#04x, want %#04x", got, tt.want)
			}
		})
	}
}

func TestCRC16_matchesBitwise(t *testing.T) {
	buf := make([]byte, 0, 256)
	for i := 0; i < 256; i++ {
		buf = append(buf, byte(i*7+3))
		if got, want := CRC16(buf), crc16Bitwise(buf); got != want {
			t.Fatalf("CRC16(% x) = %#04x, want %#04x", buf, got, want)
		}
	}
}

func Benchmark_crc16(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = CRC16([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	}
}
