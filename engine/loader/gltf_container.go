package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnsupportedContainerVersion is returned for a GLB container whose version is neither 1 nor 2.
	ErrUnsupportedContainerVersion = errors.New("unsupported GLB container version")

	errInvalidGLBMagic  = errors.New("invalid GLB magic number")
	errMissingJSONChunk = errors.New("GLB file missing JSON chunk")
	errGLBTooSmall      = errors.New("GLB file too small")
	errGLBTruncated     = errors.New("GLB length exceeds file size")
	errChunkOutOfRange  = errors.New("GLB chunk exceeds file size")
)

// --- GLB Binary Format ---

// gltfGLBHeader is the header of a GLB file (12 bytes).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
type gltfGLBHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // 1 or 2
	Length  uint32 // Total file length
}

// gltfGLBChunkHeader is the header of a GLB 2 chunk (8 bytes).
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32 // 0x4E4F534A for JSON, 0x004E4942 for BIN
}

// gltfGLBContentHeader follows the file header of a GLB 1 container (8 bytes).
type gltfGLBContentHeader struct {
	ContentLength uint32
	ContentFormat uint32 // 0 for JSON
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)

// glbContainer is the decoded content of a GLB file.
type glbContainer struct {
	// Version is the container version, 1 or 2.
	Version uint32

	// JSON is the embedded glTF document.
	JSON []byte

	// Body is the binary payload. The first buffer (2) or the "binary_glTF" buffer (1) refers to it.
	Body []byte
}

// isGLB reports whether data starts with the GLB magic.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic
}

// parseGLB splits a GLB file into its JSON document and binary body.
//
// Parameters:
//   - data: the whole file
//
// Returns:
//   - *glbContainer: the container content
//   - error: errInvalidGLBMagic, ErrUnsupportedContainerVersion, errGLBTruncated, errChunkOutOfRange,
//     or another framing error
func parseGLB(data []byte) (*glbContainer, error) {
	if len(data) < 12 {
		return nil, errGLBTooSmall
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, errInvalidGLBMagic
	}
	if int64(header.Length) > int64(len(data)) {
		return nil, fmt.Errorf("%w: %d > %d", errGLBTruncated, header.Length, len(data))
	}

	switch header.Version {
	case 1:
		return parseGLBv1(r, data)
	case 2:
		return parseGLBv2(r)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedContainerVersion, header.Version)
}

func parseGLBv1(r *bytes.Reader, data []byte) (*glbContainer, error) {
	var content gltfGLBContentHeader
	if err := binary.Read(r, binary.LittleEndian, &content); err != nil {
		return nil, fmt.Errorf("failed to read GLB content header: %w", err)
	}

	start := 20
	end := start + int(content.ContentLength)
	if end > len(data) {
		return nil, fmt.Errorf("GLB content length %d exceeds file size %d", content.ContentLength, len(data))
	}

	return &glbContainer{
		Version: 1,
		JSON:    data[start:end],
		Body:    data[end:],
	}, nil
}

func parseGLBv2(r *bytes.Reader) (*glbContainer, error) {
	out := &glbContainer{Version: 2}

	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: chunk %#x length %d, %d bytes left", errChunkOutOfRange, chunkHeader.ChunkType, chunkHeader.ChunkLength, r.Len())
		}
		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			out.JSON = chunkData
		case gltfGLBChunkBIN:
			out.Body = chunkData
		}
	}

	if out.JSON == nil {
		return nil, errMissingJSONChunk
	}
	return out, nil
}
