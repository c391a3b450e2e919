// Package proto implements the length-delimited wire protocol of spec.md
// §6: a uint32 big-endian length prefix followed by a tagged-union
// payload. Marker-byte dispatch for encode/decode is grounded on
// alxayo-rtmp-go/internal/rtmp/amf/amf.go's EncodeValue/DecodeValue pair
// (dispatch on a single leading marker byte, reject unknown markers
// explicitly rather than falling through); the length-prefix framing
// itself is grounded on alxayo-rtmp-go/internal/rtmp/chunk/writer.go's
// explicit byte-level header helpers.
package proto

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/famish99/uampd/internal/errs"
)

// maxFrameLen bounds a single frame so a corrupt or hostile length prefix
// cannot force an unbounded allocation.
const maxFrameLen = 64 << 20

// WriteFrame writes payload length-prefixed (uint32 big-endian) to w, the
// framing every Message encode/decode below builds on.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return errs.Wrap(errs.Io, "failed to write frame length", err)
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(errs.Io, "failed to write frame payload", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed payload from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err // EOF/UnexpectedEOF propagate as-is so callers can detect disconnect
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return nil, errs.New(errs.Serde, fmt.Sprintf("frame length %d exceeds maximum %d", n, maxFrameLen))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errs.Wrap(errs.Io, "failed to read frame payload", err)
	}
	return buf, nil
}
