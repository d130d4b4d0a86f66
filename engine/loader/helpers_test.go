package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// le encodes values little-endian back to back.
func le(values ...any) []byte {
	var b bytes.Buffer
	for _, v := range values {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return b.Bytes()
}

func dataURI(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func resolverFor(t *testing.T, doc string, buf []byte) *accessorResolver {
	t.Helper()
	var d gltfDocument
	require.NoError(t, json.Unmarshal([]byte(doc), &d))
	return newAccessorResolver(&d, map[string][]byte{"0": buf})
}

func parseDoc(t *testing.T, doc map[string]any, opts ...LoaderBuilderOption) (*Result, error) {
	t.Helper()
	return NewLoader(opts...).Parse(context.Background(), mustJSON(t, doc), "")
}

// logRecorder collects log records for assertions.
type logRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *logRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *logRecorder) WithGroup(string) slog.Handler      { return r }

func (r *logRecorder) messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec.Message)
		}
	}
	return out
}

// triangleDoc is a glTF 2.0 document with one indexed triangle in a data URI buffer.
func triangleDoc() map[string]any {
	buf := le(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]uint16{0, 1, 2, 0},
	)
	return map[string]any{
		"asset":   map[string]any{"version": "2.0"},
		"scene":   0,
		"scenes":  []any{map[string]any{"nodes": []int{0}}},
		"nodes":   []any{map[string]any{"name": "tri", "mesh": 0}},
		"meshes":  []any{map[string]any{"name": "triangle", "primitives": []any{map[string]any{"attributes": map[string]any{"POSITION": 0}, "indices": 1}}}},
		"buffers": []any{map[string]any{"uri": dataURI(buf), "byteLength": len(buf)}},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
	}
}
