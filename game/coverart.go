package game

import (
	"encoding/base64"
	"strings"
)

// CoverArt is the image embedded in a track's tags. The zero value means
// the track has none.
type CoverArt struct {
	MIMEType string
	Data     []byte
}

func (c CoverArt) Empty() bool {
	return len(c.Data) == 0
}

// DataURI encodes the art as a data: URI, or returns "" if there is no art.
func (c CoverArt) DataURI() string {
	if c.Empty() {
		return ""
	}
	mime := c.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(c.Data))
	return b.String()
}
