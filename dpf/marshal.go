//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dpf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// The key blob is packed little-endian with no padding:
//
//	s_root   8 bytes
//	f_root   1 byte
//	FCW      8 bytes
//	sign     4 bytes
//	cw_count 8 bytes
//	cw_count times: scw 8 bytes, fcw_left 1 byte, fcw_right 1 byte

const (
	keyHeaderLen = 8 + 1 + 8 + 4 + 8
	cwLen        = 8 + 1 + 1

	// maxLevels bounds the correction word count of an incoming
	// blob; the domain index fits a 64-bit word.
	maxLevels = 64
)

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Marshal encodes the key into its binary blob.
func (k *Key) Marshal() []byte {
	buf := make([]byte, keyHeaderLen+len(k.CW)*cwLen)

	binary.LittleEndian.PutUint64(buf[0:], k.SeedRoot)
	buf[8] = boolByte(k.FlagRoot)
	binary.LittleEndian.PutUint64(buf[9:], uint64(k.FinalCW))
	binary.LittleEndian.PutUint32(buf[17:], uint32(k.Sign))
	binary.LittleEndian.PutUint64(buf[21:], uint64(len(k.CW)))

	ofs := keyHeaderLen
	for _, cw := range k.CW {
		binary.LittleEndian.PutUint64(buf[ofs:], cw.Seed)
		buf[ofs+8] = boolByte(cw.FlagLeft)
		buf[ofs+9] = boolByte(cw.FlagRight)
		ofs += cwLen
	}
	return buf
}

// WriteKey writes the key blob to w.
func WriteKey(w io.Writer, k *Key) error {
	_, err := w.Write(k.Marshal())
	return err
}

// ReadKey reads a key blob from r. A short read or an impossible
// correction word count is an error.
func ReadKey(r io.Reader) (*Key, error) {
	var hdr [keyHeaderLen]byte
	_, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return nil, err
	}

	k := &Key{
		SeedRoot: binary.LittleEndian.Uint64(hdr[0:]),
		FlagRoot: hdr[8] != 0,
		FinalCW:  int64(binary.LittleEndian.Uint64(hdr[9:])),
		Sign:     int32(binary.LittleEndian.Uint32(hdr[17:])),
	}
	count := binary.LittleEndian.Uint64(hdr[21:])
	if count > maxLevels {
		return nil, fmt.Errorf("dpf: invalid correction word count %d",
			count)
	}

	buf := make([]byte, int(count)*cwLen)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(count); i++ {
		ofs := i * cwLen
		k.CW = append(k.CW, CorrectionWord{
			Seed:      binary.LittleEndian.Uint64(buf[ofs:]),
			FlagLeft:  buf[ofs+8] != 0,
			FlagRight: buf[ofs+9] != 0,
		})
	}
	return k, nil
}

// UnmarshalKey decodes a key blob produced by Marshal.
func UnmarshalKey(data []byte) (*Key, error) {
	return ReadKey(bytes.NewReader(data))
}
