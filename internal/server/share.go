package server

import (
	"encoding/base64"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// BuildShareURL builds the download-page URL recipients open for a
// group.
func BuildShareURL(baseURL, groupID string) string {
	return strings.TrimRight(baseURL, "/") + "/download/" + groupID
}

// QRCodeDataURL encodes a share URL as a PNG data URL suitable for
// embedding directly in an <img> tag.
func QRCodeDataURL(shareURL string) (string, error) {
	png, err := qrcode.Encode(shareURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
