package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"strings"

	"biolink/pkg/colorutil"

	"github.com/skip2/go-qrcode"
)

type QROptions struct {
	Content string
	Size    int
	FgColor string // Hex code e.g. "#7c3aed"
	BgColor string // Hex code e.g. "#ffffff"
	Logo    image.Image
}

// MaxLogoDimension bounds the width and height of an image accepted as a QR logo.
const MaxLogoDimension = 1024

type QRService struct {
	maxLogoDim int
}

func NewQRService() *QRService {
	return &QRService{maxLogoDim: MaxLogoDimension}
}

// GenerateQRCode renders a PNG.
func (s *QRService) GenerateQRCode(opts QROptions) ([]byte, error) {
	qr, err := qrcode.New(opts.Content, qrcode.Highest) // Highest level for logo tolerance
	if err != nil {
		return nil, err
	}

	qr.ForegroundColor = parseHexColor(opts.FgColor, color.Black)
	qr.BackgroundColor = parseHexColor(opts.BgColor, color.White)

	size := opts.Size
	if size <= 0 {
		size = 256
	}
	img := qr.Image(size)

	if opts.Logo != nil {
		img = embedLogo(img, opts.Logo)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateQRCodeSVG renders the code as SVG. Logos are not embedded.
func (s *QRService) GenerateQRCodeSVG(opts QROptions) (string, error) {
	qr, err := qrcode.New(opts.Content, qrcode.Highest)
	if err != nil {
		return "", err
	}

	qr.DisableBorder = true
	bitmap := qr.Bitmap()
	size := len(bitmap)

	fg := hexOrDefault(opts.FgColor, "#000000")
	bg := hexOrDefault(opts.BgColor, "#ffffff")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size))
	sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, bg))
	sb.WriteString(fmt.Sprintf(`<path fill="%s" d="`, fg))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if bitmap[y][x] {
				sb.WriteString(fmt.Sprintf("M%d %dh1v1h-1z ", x, y))
			}
		}
	}
	sb.WriteString(`"/>`)
	sb.WriteString("</svg>")
	return sb.String(), nil
}

// DecodeLogo decodes a base64 PNG or JPEG data URI, such as a stored avatar,
// for use as a QR logo. The header is checked before any pixels are allocated.
func (s *QRService) DecodeLogo(uri string) (image.Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("not a base64 image data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width > s.maxLogoDim || cfg.Height > s.maxLogoDim {
		return nil, fmt.Errorf("logo is %dx%d, limit is %dx%d", cfg.Width, cfg.Height, s.maxLogoDim, s.maxLogoDim)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func parseHexColor(s string, defaultColor color.Color) color.Color {
	c, ok := colorutil.ParseHex(s)
	if !ok {
		return defaultColor
	}
	return c
}

// hexOrDefault keeps user colors out of the SVG markup unless they parse.
func hexOrDefault(s, fallback string) string {
	c, ok := colorutil.ParseHex(s)
	if !ok {
		return fallback
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Nearest-neighbor resize
func resizeImage(img image.Image, newWidth, newHeight int) image.Image {
	r := image.Rect(0, 0, newWidth, newHeight)
	dst := image.NewRGBA(r)

	xRatio := float64(img.Bounds().Dx()) / float64(newWidth)
	yRatio := float64(img.Bounds().Dy()) / float64(newHeight)

	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(img.Bounds().Min.X+srcX, img.Bounds().Min.Y+srcY))
		}
	}
	return dst
}

func embedLogo(src image.Image, logo image.Image) image.Image {
	b := src.Bounds()
	m := image.NewRGBA(b)

	draw.Draw(m, b, src, image.Point{}, draw.Src)

	// Logo covers a fifth of each side, well inside the Highest recovery level.
	targetW := b.Dx() / 5
	targetH := b.Dy() / 5

	resizedLogo := resizeImage(logo, targetW, targetH)

	offset := image.Pt(
		(b.Dx()-targetW)/2,
		(b.Dy()-targetH)/2,
	)

	draw.Draw(m, image.Rect(offset.X, offset.Y, offset.X+targetW, offset.Y+targetH), resizedLogo, image.Point{}, draw.Over)
	return m
}
