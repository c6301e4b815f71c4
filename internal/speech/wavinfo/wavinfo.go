// Package wavinfo reads basic metadata from RIFF/WAVE files.
package wavinfo

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Info holds metadata read from a WAVE file.
type Info struct {
	SampleRate int
	Channels   int
	Duration   float64 // seconds
}

// Probe reads the fmt and data chunks of the WAVE file at path. It walks
// the chunk list, so files with extra chunks (LIST, fact) still probe.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()
	return Read(f)
}

// Read probes WAVE metadata from r.
func Read(r io.Reader) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		info     Info
		byteRate uint32
		haveFmt  bool
		dataSize uint32
		haveData bool
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			break
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return Info{}, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			var fm [16]byte
			if _, err := io.ReadFull(r, fm[:]); err != nil {
				return Info{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fm[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fm[4:8]))
			byteRate = binary.LittleEndian.Uint32(fm[8:12])
			haveFmt = true
			if err := skip(r, int64(size)-16); err != nil {
				return Info{}, err
			}
		case "data":
			dataSize = size
			haveData = true
			// A truncated data chunk still yields usable metadata, so a
			// failed skip just ends the walk on the next read.
			_ = skip(r, int64(size))
		default:
			if err := skip(r, int64(size)); err != nil {
				return Info{}, err
			}
		}

		// Chunks are word-aligned.
		if size%2 == 1 {
			if err := skip(r, 1); err != nil {
				break
			}
		}

		if haveFmt && haveData {
			break
		}
	}

	if !haveFmt || !haveData {
		return Info{}, fmt.Errorf("missing fmt or data chunk")
	}
	if byteRate > 0 {
		info.Duration = float64(dataSize) / float64(byteRate)
	}
	return info, nil
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
