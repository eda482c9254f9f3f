package labels

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 512

// PNG renders a QR tag label encoding the equipment name. Requestors scan it
// to fill the item into a request.
func PNG(name string, size int) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("cannot label equipment without a name")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(name, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR label: %w", err)
	}
	return png, nil
}
