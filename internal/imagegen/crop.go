package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropBottom removes a band of height pixels from the bottom of an encoded
// JPEG or PNG image and re-encodes it in the same format. Images not taller
// than the band are returned unchanged.
func CropBottom(data []byte, height int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if format == "jpeg" {
		format = "jpg"
	}

	bounds := img.Bounds()
	if height <= 0 || bounds.Dy() <= height {
		return data, format, nil
	}

	si, ok := img.(subImager)
	if !ok {
		return nil, "", fmt.Errorf("image type %T cannot be cropped", img)
	}
	cropped := si.SubImage(image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y-height))

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, cropped)
	case "jpg":
		err = jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: 95})
	default:
		return nil, "", fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return buf.Bytes(), format, nil
}
