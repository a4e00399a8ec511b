package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultFolder is where every uploaded binary is placed on the media host.
const DefaultFolder = "uploads"

// Host is a media hosting backend. Upload accepts the caller's encoded image
// (a data URI or bare base64) and returns the public URL and the identifier
// Destroy needs later.
type Host interface {
	Upload(ctx context.Context, data string) (*models.Asset, error)
	Destroy(ctx context.Context, mediaID string) error
}

var ErrMalformedPayload = errors.New("malformed image payload")

// Payload is a decoded image body.
type Payload struct {
	ContentType string
	Data        []byte
}

// DecodePayload accepts "data:<mime>;base64,<body>" or bare base64. The
// content type is sniffed from the bytes when the URI does not declare one.
func DecodePayload(s string) (*Payload, error) {
	s = strings.TrimSpace(s)
	var declared string
	if strings.HasPrefix(s, "data:") {
		meta, body, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, ErrMalformedPayload
		}
		declared = strings.TrimSuffix(meta, ";base64")
		s = body
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, ErrMalformedPayload
		}
	}
	if len(data) == 0 {
		return nil, ErrMalformedPayload
	}
	ct := declared
	if ct == "" {
		ct = mimetype.Detect(data).String()
	}
	return &Payload{ContentType: ct, Data: data}, nil
}

// DataURI renders p back to the form hosted upload APIs accept.
func (p *Payload) DataURI() string {
	return "data:" + p.ContentType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Extension returns the file extension for the payload, including the dot.
func (p *Payload) Extension() string {
	if m := mimetype.Lookup(p.ContentType); m != nil {
		return m.Extension()
	}
	return mimetype.Detect(p.Data).Extension()
}
