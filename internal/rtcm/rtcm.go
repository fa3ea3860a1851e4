// Package rtcm provides minimal RTCM3 frame inspection helpers for the relay's
// diagnostic path. The relay itself never parses payloads; these helpers exist
// so the debug sink can report message type and length for completed sentences.
package rtcm

// Preamble is the fixed first byte of every RTCM3 frame.
const Preamble byte = 0xD3

// MaxFrameLen is the largest possible RTCM3 frame: 3 header bytes, a payload
// of up to 1023 bytes, and a 3-byte CRC.
const MaxFrameLen = 3 + 1023 + 3

// headerLen is the number of bytes needed before the message type is readable:
// preamble, two length bytes, and the first two payload bytes carrying the
// 12-bit type.
const headerLen = 5

// Length extracts the 10-bit payload length from a frame. The second byte's
// top six bits are reserved and must be zero for a valid header. Returns false
// if the slice is too short or does not start with the preamble.
func Length(frame []byte) (int, bool) {
	if len(frame) < 3 || frame[0] != Preamble {
		return 0, false
	}
	if frame[1]&0xFC != 0 {
		return 0, false
	}
	return int(frame[1]&0x03)<<8 | int(frame[2]), true
}

// MessageType extracts the 12-bit message type. The type occupies the whole of
// byte 3 and the top four bits of byte 4. Returns false if the slice is too
// short or does not start with the preamble.
func MessageType(frame []byte) (uint16, bool) {
	if len(frame) < headerLen || frame[0] != Preamble {
		return 0, false
	}
	return uint16(frame[3])<<4 | uint16(frame[4])>>4, true
}
