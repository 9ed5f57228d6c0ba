package captioner

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
)

// EncodeImageBase64 encodes an image to base64 JPEG format.
func EncodeImageBase64(img image.Image) (string, error) {
	var buf bytes.Buffer

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// encodeRequestFrame returns the base64 JPEG for a caption request,
// preferring pre-encoded bytes over a re-encode.
func encodeRequestFrame(req *Request) (string, error) {
	if len(req.JPEG) > 0 {
		return base64.StdEncoding.EncodeToString(req.JPEG), nil
	}
	if req.Image == nil {
		return "", ErrNoFrame
	}
	return EncodeImageBase64(req.Image)
}
