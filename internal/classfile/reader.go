package classfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// BinaryReader reads a class file's big-endian binary layout and tracks
// how many bytes have been consumed, in the style of a hand-rolled
// structured binary reader (there is no third-party JVM class-file
// decoder in the wild we could reuse instead; see DESIGN.md).
type BinaryReader struct {
	r         *bufio.Reader
	bytesRead int64
}

func NewBinaryReader(r io.Reader) *BinaryReader {
	return &BinaryReader{r: bufio.NewReader(r)}
}

func (br *BinaryReader) BytesRead() int64 { return br.bytesRead }

func (br *BinaryReader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(br.r, buf)
	br.bytesRead += int64(read)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (br *BinaryReader) U1() (uint8, error) {
	b, err := br.r.ReadByte()
	if err != nil {
		return 0, err
	}
	br.bytesRead++
	return b, nil
}

func (br *BinaryReader) U2() (uint16, error) {
	buf, err := br.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (br *BinaryReader) U4() (uint32, error) {
	buf, err := br.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (br *BinaryReader) I4() (int32, error) {
	v, err := br.U4()
	return int32(v), err
}

func (br *BinaryReader) U8() (uint64, error) {
	buf, err := br.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func (br *BinaryReader) Bytes(n int) ([]byte, error) {
	return br.readN(n)
}

func (br *BinaryReader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := br.readN(n)
	if err != nil {
		return fmt.Errorf("failed to skip %d bytes: %w", n, err)
	}
	return nil
}
