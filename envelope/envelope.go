// Package envelope implements the root envelope that wraps every saved
// buffer. The payload and packed vtable region are followed by an
// 8-byte-aligned trailer of exactly TrailerSize bytes: a UOffsetT giving
// the root table's position relative to the trailer's own start, then the
// caller-supplied file identifier.
package envelope

import (
	fb "github.com/nsfard/foundationdb/flatbuffers"
	"github.com/nsfard/foundationdb/ferr"
)

// Alignment is the byte boundary the trailer is placed on.
const Alignment = 8

// TrailerSize is the root offset (UOffsetT) plus the file identifier (u32).
const TrailerSize = fb.SizeUOffsetT + fb.FileIdentifierLength

// Write encodes the trailer into dst[:TrailerSize]: rootOffset is the root
// table's address relative to the trailer's own start.
func Write(dst []byte, rootOffset int, fileID uint32) {
	fb.WriteUint32(dst[0:fb.SizeUOffsetT], uint32(int32(rootOffset)))
	fb.WriteUint32(dst[fb.SizeUOffsetT:TrailerSize], fileID)
}

// Read validates and parses a saved buffer's trailer, returning the root
// table's absolute address. wantFileID is checked against the stored file
// identifier; a mismatch is ferr.BadFileIdentifier. A buffer too short to
// hold even the trailer is ferr.Truncated.
func Read(buf []byte, wantFileID uint32) (rootAddr int, err error) {
	if len(buf) < TrailerSize {
		return 0, ferr.New(ferr.Truncated, "buffer of %d bytes too short for envelope trailer", len(buf))
	}
	trailerStart := len(buf) - TrailerSize
	trailer := buf[trailerStart:]
	gotFileID := fb.GetUint32(trailer[fb.SizeUOffsetT:TrailerSize])
	if gotFileID != wantFileID {
		return 0, ferr.New(ferr.BadFileIdentifier, "file identifier %#x does not match expected %#x", gotFileID, wantFileID)
	}
	rel := int32(fb.GetUint32(trailer[0:fb.SizeUOffsetT]))
	addr := trailerStart + int(rel)
	if addr < 0 || addr >= trailerStart {
		return 0, ferr.New(ferr.Truncated, "root offset %d out of bounds for buffer of %d bytes", addr, len(buf))
	}
	return addr, nil
}

// ReadFileIdentifier returns the file identifier stored in a saved buffer's
// trailer without checking it against any expected value. A buffer too
// short to hold the trailer is ferr.Truncated.
func ReadFileIdentifier(buf []byte) (uint32, error) {
	if len(buf) < TrailerSize {
		return 0, ferr.New(ferr.Truncated, "buffer of %d bytes too short for envelope trailer", len(buf))
	}
	trailer := buf[len(buf)-TrailerSize:]
	return fb.GetUint32(trailer[fb.SizeUOffsetT:TrailerSize]), nil
}
