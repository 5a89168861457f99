package common

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// DecodeImage decodes png, jpeg or gif data. An empty mime sniffs the format.
func DecodeImage(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	case "":
		img, _, err = image.Decode(data)
	default:
		return nil, fmt.Errorf("We just accept jpeg, gif or png")
	}
	return img, err
}

func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Thumbnail scales img to size x size. Pixel art keeps hard edges.
func Thumbnail(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.NearestNeighbor)
}
