package video

import "bytes"

// Leading bytes of real files, enough for content type detection.
var (
	MP4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2avc1mp41\x00\x00\x00\x08free")
	MKVHeader = []byte("\x1A\x45\xDF\xA3\x9F\x42\x86\x81\x01\x42\xF7\x81\x01\x42\xF2\x81\x04\x42\xF3\x81\x08" +
		"\x42\x82\x88matroska\x42\x87\x81\x04\x42\x85\x81\x02")
)

// NewTestFile returns a File made of header followed by size-len(header) zero bytes.
func NewTestFile(name string, header []byte, size int) *File {
	content := make([]byte, size)
	copy(content, header)
	return &File{Name: name, Size: int64(size), Content: bytes.NewReader(content)}
}
