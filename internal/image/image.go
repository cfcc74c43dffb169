// Package image gives the generator's string- and global-constant
// heuristics read access to the bytes of the analyzed executable.
package image

import (
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Section is one loaded, byte-addressable region of the executable image.
type Section struct {
	Name      string
	Addr      uint64
	Data      []byte
	Readable  bool
	Allocated bool
}

// Image is the read-only byte source the constant emitter consults for
// the prefer_cstrings and prefer_globals heuristics.
type Image struct {
	sections    []Section
	pointerSize uint32
}

// New builds an Image over the given sections, ordered by load address.
func New(pointerSize uint32, sections []Section) *Image {
	return &Image{sections: sections, pointerSize: pointerSize}
}

// PointerSize returns the bit size of a pointer in this image.
func (img *Image) PointerSize() uint32 { return img.pointerSize }

// Sections returns every section given to New, allocated or not.
func (img *Image) Sections() []Section { return img.sections }

func (img *Image) sectionFor(addr uint64) (*Section, int) {
	for i := range img.sections {
		s := &img.sections[i]
		if !s.Allocated {
			continue
		}
		end := s.Addr + uint64(len(s.Data))
		if addr >= s.Addr && addr < end {
			return s, int(addr - s.Addr)
		}
	}
	return nil, 0
}

// ReadBytes reads up to size bytes at addr, returning fewer than size if
// the read runs past the owning section's end, matching the original
// reader's short-read-on-failure contract.
func (img *Image) ReadBytes(addr uint64, size int) []byte {
	s, off := img.sectionFor(addr)
	if s == nil || !s.Readable {
		return nil
	}
	end := off + size
	if end > len(s.Data) {
		end = len(s.Data)
	}
	if off > end {
		return nil
	}
	return s.Data[off:end]
}

// ReadAsciizString reads a NUL-terminated ASCII string of at most maxSize
// bytes starting at addr. It returns (text, true) only when every byte is
// printable ASCII and a NUL terminator was found within maxSize bytes;
// this is the exact shape the prefer_cstrings heuristic requires.
func (img *Image) ReadAsciizString(addr uint64, maxSize int) (string, bool) {
	buf := img.ReadBytes(addr, maxSize)
	if buf == nil {
		return "", false
	}
	for i, b := range buf {
		if b == 0 {
			if !isPureASCII(buf[:i]) {
				return "", false
			}
			return string(buf[:i]), true
		}
	}
	return "", false
}

// ReadWideString reads a NUL-terminated UTF-16LE string of at most
// maxChars 16-bit code units starting at addr, for the wide-string
// constant supplement to prefer_cstrings. It returns (text, true) only
// when a NUL terminator was found within maxChars units and the run
// decodes to valid UTF-8 with no unpaired surrogates.
func (img *Image) ReadWideString(addr uint64, maxChars int) (string, bool) {
	buf := img.ReadBytes(addr, maxChars*2)
	units := make([]uint16, 0, len(buf)/2)
	terminated := false
	for i := 0; i+1 < len(buf); i += 2 {
		u := uint16(buf[i]) | uint16(buf[i+1])<<8
		if u == 0 {
			terminated = true
			break
		}
		units = append(units, u)
	}
	if !terminated {
		return "", false
	}
	runes := utf16.Decode(units)
	for _, r := range runes {
		if r == utf8.RuneError {
			return "", false
		}
	}
	s := string(runes)
	if !utf8.ValidString(s) {
		return "", false
	}
	return s, true
}

func isPureASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return utf8.Valid(b)
}

// ReadPointer reads a pointer of the image's native size at addr.
func (img *Image) ReadPointer(addr uint64) (uint64, bool) {
	return img.ReadPointerSized(addr, img.pointerSize)
}

// ReadPointerSized reads a pointer of the given bit size at addr.
func (img *Image) ReadPointerSized(addr uint64, sizeBits uint32) (uint64, bool) {
	nbytes, err := safecast.Conv[int](sizeBits / 8)
	if err != nil || nbytes <= 0 {
		return 0, false
	}
	buf := img.ReadBytes(addr, nbytes)
	if len(buf) != nbytes {
		return 0, false
	}
	var v uint64
	for i := nbytes - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v, true
}
