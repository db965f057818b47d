package storage

import (
	"net/url"

	"github.com/skip2/go-qrcode"
)

type TrackingQRGenerator struct {
	BaseURL string
}

// TrackingURL is the customer-facing page the QR code points at.
func (g TrackingQRGenerator) TrackingURL(ref string) string {
	return g.BaseURL + "/track.html?ref=" + url.QueryEscape(ref)
}

func (g TrackingQRGenerator) Generate(ref string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(ref), qrcode.Medium, 256)
}
