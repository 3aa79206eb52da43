package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRService(t *testing.T) {
	service := NewQRService()

	t.Run("Generate PNG QR Code", func(t *testing.T) {
		opts := QROptions{
			Content: "https://bio.example.com/share/romeo-abc123",
			Size:    256,
			FgColor: "#7c3aed",
			BgColor: "#FFFFFF",
		}
		raw, err := service.GenerateQRCode(opts)

		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("Default Size", func(t *testing.T) {
		raw, err := service.GenerateQRCode(QROptions{Content: "https://example.com"})
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("Generate PNG QR Code with Logo", func(t *testing.T) {
		logo := image.NewRGBA(image.Rect(0, 0, 50, 50))
		opts := QROptions{
			Content: "https://example.com",
			Size:    256,
			Logo:    logo,
		}
		_, err := service.GenerateQRCode(opts)
		assert.NoError(t, err)
	})

	t.Run("Generate PNG QR Code Error", func(t *testing.T) {
		opts := QROptions{
			Content: strings.Repeat("A", 10000),
		}
		_, err := service.GenerateQRCode(opts)
		assert.Error(t, err)
	})

	t.Run("Generate SVG QR Code", func(t *testing.T) {
		opts := QROptions{
			Content: "https://example.com",
			FgColor: "#7C3AED",
			BgColor: "#FFFFFF",
		}
		svg, err := service.GenerateQRCodeSVG(opts)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(svg, "<svg"))
		assert.Contains(t, svg, "#7c3aed")
		assert.Contains(t, svg, "#ffffff")
	})

	t.Run("SVG Rejects Markup In Colors", func(t *testing.T) {
		svg, err := service.GenerateQRCodeSVG(QROptions{Content: "x", FgColor: `"/><script>`})
		assert.NoError(t, err)
		assert.NotContains(t, svg, "<script>")
		assert.Contains(t, svg, "#000000")
	})
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 255}, parseHexColor("#7c3aed", color.Black))
	assert.Equal(t, color.Black, parseHexColor("nope", color.Black))
}

func pngDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestQRService_DecodeLogo(t *testing.T) {
	service := NewQRService()

	img, err := service.DecodeLogo(pngDataURI(t, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = service.DecodeLogo("data:audio/mpeg;base64,AAAA")
	assert.Error(t, err)
	_, err = service.DecodeLogo("data:image/png;base64,!!!")
	assert.Error(t, err)
	_, err = service.DecodeLogo("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not png")))
	assert.Error(t, err)
}

func TestQRService_DecodeLogo_DimensionLimit(t *testing.T) {
	service := NewQRService()

	t.Run("Wide Image Rejected", func(t *testing.T) {
		wide := image.NewGray(image.Rect(0, 0, MaxLogoDimension+1, 1))
		_, err := service.DecodeLogo(pngDataURI(t, wide))
		assert.ErrorContains(t, err, "limit is 1024x1024")
	})

	t.Run("Tall Image Rejected", func(t *testing.T) {
		tall := image.NewGray(image.Rect(0, 0, 1, MaxLogoDimension+1))
		_, err := service.DecodeLogo(pngDataURI(t, tall))
		assert.Error(t, err)
	})

	t.Run("At Limit Accepted", func(t *testing.T) {
		edge := image.NewGray(image.Rect(0, 0, MaxLogoDimension, 1))
		img, err := service.DecodeLogo(pngDataURI(t, edge))
		require.NoError(t, err)
		assert.Equal(t, MaxLogoDimension, img.Bounds().Dx())
	})

	t.Run("Custom Bound", func(t *testing.T) {
		small := &QRService{maxLogoDim: 4}
		_, err := small.DecodeLogo(pngDataURI(t, image.NewGray(image.Rect(0, 0, 5, 5))))
		assert.Error(t, err)
	})
}
