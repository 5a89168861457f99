package tilemap

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	EncodingCSV    = "csv"
	EncodingBase64 = "base64"

	CompressionNone = ""
	CompressionZlib = "zlib"
	CompressionGzip = "gzip"
)

func decodeData(l *Layer) ([]uint32, error) {
	if len(l.RawData) == 0 {
		return nil, errors.New("missing layer data")
	}

	switch l.Encoding {
	case "", EncodingCSV:
		var gids []uint32
		if err := json.Unmarshal(l.RawData, &gids); err != nil {
			return nil, fmt.Errorf("invalid layer data: %w", err)
		}

		return gids, nil

	case EncodingBase64:
		var s string
		if err := json.Unmarshal(l.RawData, &s); err != nil {
			return nil, fmt.Errorf("invalid base64 layer data: %w", err)
		}

		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 layer data: %w", err)
		}

		raw, err = Decompress(l.Compression, raw)
		if err != nil {
			return nil, err
		}

		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("layer data has %d bytes, not a multiple of 4", len(raw))
		}

		gids := make([]uint32, len(raw)/4)
		for i := range gids {
			gids[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}

		return gids, nil
	}

	return nil, fmt.Errorf("unsupported layer encoding %q", l.Encoding)
}

// encodeData fills RawData from gids with the layer encoding and compression.
func encodeData(l *Layer, gids []uint32) error {
	var (
		b   []byte
		err error
	)

	switch l.Encoding {
	case "", EncodingCSV:
		b, err = json.Marshal(gids)
		if err != nil {
			return err
		}

	case EncodingBase64:
		raw := make([]byte, len(gids)*4)
		for i, gid := range gids {
			binary.LittleEndian.PutUint32(raw[i*4:], gid)
		}

		raw, err = Compress(l.Compression, raw)
		if err != nil {
			return err
		}

		b, err = json.Marshal(base64.StdEncoding.EncodeToString(raw))
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unsupported layer encoding %q", l.Encoding)
	}

	l.RawData = b
	l.GIDs = gids
	return nil
}

func Compress(compression string, data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)

	var w io.WriteCloser
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		w = zlib.NewWriter(buf)
	case CompressionGzip:
		w = gzip.NewWriter(buf)
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decompress(compression string, data []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)

	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot open %s stream: %w", compression, err)
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("cannot decompress %s data: %w", compression, err)
	}

	return buf.Bytes(), nil
}
