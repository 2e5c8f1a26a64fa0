package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		size   int64
		limit  int64
		want   bool
	}{
		{"ok within limit", http.StatusOK, 100, 1024, true},
		{"ok no limit", http.StatusOK, 1 << 20, 0, true},
		{"ok exactly at limit", http.StatusOK, 1024, 1024, true},
		{"ok over limit", http.StatusOK, 1025, 1024, false},
		{"not found", http.StatusNotFound, 10, 1024, false},
		{"server error", http.StatusInternalServerError, 10, 1024, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheable(tt.status, tt.size, tt.limit))
		})
	}
}

func TestCaptureWriterTracksFullSizePastLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	body := strings.Repeat("x", 20)
	n, err := cw.Write([]byte(body))
	assert.NoError(t, err)
	assert.Equal(t, 20, n)

	// The client gets the whole body while the buffer stops at the limit,
	// and size records the true response length.
	assert.Equal(t, body, rec.Body.String())
	assert.Equal(t, 8, cw.buf.Len())
	assert.Equal(t, int64(20), cw.size)
	assert.False(t, cacheable(cw.status, cw.size, cw.limit))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"success":true}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	assert.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, []byte("short"), {0, 0, 0, 200, 0, 0, 0, 99}} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}
