package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
)

// PlaceholderRenderer produces a blank page image when no raster
// backend is installed. The analyzer still receives the extracted page
// text, so summaries survive even without real page imagery.
type PlaceholderRenderer struct {
	Width  int
	Height int
}

func NewPlaceholderRenderer() *PlaceholderRenderer {
	return &PlaceholderRenderer{Width: 1190, Height: 1684}
}

func (r *PlaceholderRenderer) RenderPage(ctx context.Context, filePath string, pageIndex int) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.Set(x, y, white)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return EncodeDataURI(buf.Bytes(), "image/jpeg"), nil
}

func EncodeDataURI(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI splits a data URI back into raw bytes and mime type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}
