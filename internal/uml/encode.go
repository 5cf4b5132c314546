package uml

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"strings"
)

// PlantUML servers accept diagram text compressed with raw DEFLATE and
// transcoded with a base64 variant whose alphabet differs from RFC 4648.
const encodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Encode produces the URL-safe payload for a diagram source.
func Encode(text string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("init deflate: %w", err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("deflate diagram: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("flush deflate: %w", err)
	}
	return encode64(buf.Bytes()), nil
}

// Decode reverses Encode. Used for verification; the rendering service is
// the real consumer of encoded payloads.
func Decode(encoded string) (string, error) {
	data, err := decode64(encoded)
	if err != nil {
		return "", err
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("inflate diagram: %w", err)
	}
	return string(out), nil
}

func encode64(data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		sb.WriteByte(encodeAlphabet[b1>>2])
		sb.WriteByte(encodeAlphabet[((b1&0x3)<<4)|(b2>>4)])
		sb.WriteByte(encodeAlphabet[((b2&0xF)<<2)|(b3>>6)])
		sb.WriteByte(encodeAlphabet[b3&0x3F])
	}
	return sb.String()
}

func decode64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, fmt.Errorf("encoded payload length %d is not a multiple of 4", len(s))
	}
	var out bytes.Buffer
	for i := 0; i < len(s); i += 4 {
		var vals [4]byte
		for j := 0; j < 4; j++ {
			idx := strings.IndexByte(encodeAlphabet, s[i+j])
			if idx < 0 {
				return nil, fmt.Errorf("invalid payload character %q", s[i+j])
			}
			vals[j] = byte(idx)
		}
		out.WriteByte((vals[0] << 2) | (vals[1] >> 4))
		out.WriteByte((vals[1] << 4) | (vals[2] >> 2))
		out.WriteByte((vals[2] << 6) | vals[3])
	}
	return out.Bytes(), nil
}
