package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"mime/multipart"
)

// ProbeDuration reads the duration in seconds from an uploaded MP4/MOV file by
// locating the moov/mvhd box. Non-ISO-BMFF uploads yield an error; callers
// decide whether a missing duration is fatal.
func ProbeDuration(fileHeader *multipart.FileHeader) (float64, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func(f multipart.File) {
		_ = f.Close()
	}(f)

	return mp4Duration(f, fileHeader.Size)
}

// mp4Duration walks the top-level boxes for "moov", then its children for "mvhd".
func mp4Duration(r io.ReadSeeker, size int64) (float64, error) {
	moovOffset, moovSize, err := findBox(r, 0, size, "moov")
	if err != nil {
		return 0, err
	}

	mvhdOffset, mvhdSize, err := findBox(r, moovOffset, moovOffset+moovSize, "mvhd")
	if err != nil {
		return 0, err
	}

	return readMvhd(r, mvhdOffset, mvhdSize)
}

// findBox scans [start, end) for a box of the given type and returns the
// offset and size of its payload.
func findBox(r io.ReadSeeker, start, end int64, boxType string) (int64, int64, error) {
	offset := start
	header := make([]byte, 8)

	for offset+8 <= end {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, 0, err
		}
		if _, err := io.ReadFull(r, header); err != nil {
			return 0, 0, err
		}

		boxSize := int64(binary.BigEndian.Uint32(header[:4]))
		headerLen := int64(8)

		switch boxSize {
		case 0:
			// box extends to end of enclosing scope
			boxSize = end - offset
		case 1:
			// 64-bit largesize follows the type
			large := make([]byte, 8)
			if _, err := io.ReadFull(r, large); err != nil {
				return 0, 0, err
			}
			boxSize = int64(binary.BigEndian.Uint64(large))
			headerLen = 16
		}

		if boxSize < headerLen {
			return 0, 0, fmt.Errorf("malformed box at offset %d", offset)
		}

		if string(header[4:8]) == boxType {
			return offset + headerLen, boxSize - headerLen, nil
		}

		offset += boxSize
	}

	return 0, 0, fmt.Errorf("box %q not found", boxType)
}

// readMvhd decodes timescale and duration from an mvhd payload.
func readMvhd(r io.ReadSeeker, offset, size int64) (float64, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	if len(buf) < 4 {
		return 0, fmt.Errorf("mvhd box too short")
	}

	version := buf[0]
	switch version {
	case 0:
		// version/flags(4) + creation(4) + modification(4) + timescale(4) + duration(4)
		if len(buf) < 20 {
			return 0, fmt.Errorf("mvhd v0 box too short")
		}
		timescale := binary.BigEndian.Uint32(buf[12:16])
		duration := binary.BigEndian.Uint32(buf[16:20])
		if timescale == 0 {
			return 0, fmt.Errorf("mvhd has zero timescale")
		}
		return float64(duration) / float64(timescale), nil
	case 1:
		// version/flags(4) + creation(8) + modification(8) + timescale(4) + duration(8)
		if len(buf) < 32 {
			return 0, fmt.Errorf("mvhd v1 box too short")
		}
		timescale := binary.BigEndian.Uint32(buf[20:24])
		duration := binary.BigEndian.Uint64(buf[24:32])
		if timescale == 0 {
			return 0, fmt.Errorf("mvhd has zero timescale")
		}
		return float64(duration) / float64(timescale), nil
	default:
		return 0, fmt.Errorf("unsupported mvhd version %d", version)
	}
}
