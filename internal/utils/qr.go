package utils

import qrcode "github.com/skip2/go-qrcode"

// QRCodePNG encodes url into a PNG QR code of the given edge size in pixels.
func QRCodePNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
