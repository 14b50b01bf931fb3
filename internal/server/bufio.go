package server

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
)

// Wire frames are a 4-byte little-endian length followed by the JSON
// payload. maxFrameSize bounds a single frame so a misbehaving client
// cannot force an arbitrary allocation.
const maxFrameSize = 16 << 20

func intToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func bytesToInt(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func read(mu *sync.Mutex, conn net.Conn) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	head := make([]byte, 4)
	if _, err := io.ReadFull(conn, head); err != nil {
		return nil, err
	}
	n := bytesToInt(head)
	if n > maxFrameSize {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func write(mu *sync.Mutex, conn net.Conn, b []byte) error {
	mu.Lock()
	defer mu.Unlock()
	if _, err := conn.Write(intToBytes(uint32(len(b)))); err != nil {
		return err
	}
	_, err := conn.Write(b)
	return err
}
