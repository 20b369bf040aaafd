package channel

import (
	"encoding/base64"
	"sync"

	qrcode "github.com/skip2/go-qrcode"
)

// QRState holds the latest pairing QR code published by the gateway. The
// status endpoint renders it so an operator can pair the device from a
// browser instead of digging through logs.
type QRState struct {
	mu      sync.RWMutex
	dataURL string
}

// NewQRState creates an empty pairing state.
func NewQRState() *QRState {
	return &QRState{}
}

// Update renders the raw pairing payload into a PNG data URL.
func (q *QRState) Update(raw string) error {
	png, err := qrcode.Encode(raw, qrcode.Medium, 300)
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.dataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	q.mu.Unlock()
	return nil
}

// DataURL returns the current QR image, or "" when none has been published.
func (q *QRState) DataURL() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.dataURL
}

// Reset clears the stored QR, used once the channel reports it is paired.
func (q *QRState) Reset() {
	q.mu.Lock()
	q.dataURL = ""
	q.mu.Unlock()
}
