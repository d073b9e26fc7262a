package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// EMLExtractor parses RFC 822 email messages. The subject becomes the title
// and the From/To/Date/Subject headers are prepended to the body so they
// remain searchable. Multipart messages prefer text/plain parts over
// text/html.
type EMLExtractor struct{}

// NewEMLExtractor creates an email extractor.
func NewEMLExtractor() *EMLExtractor {
	return &EMLExtractor{}
}

// Extract returns the message as one item.
func (e *EMLExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	from := decodeHeader(msg.Header.Get("From"))
	to := decodeHeader(msg.Header.Get("To"))
	date := msg.Header.Get("Date")

	body, err := messageBody(msg)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, h := range []struct{ label, value string }{
		{"From", from},
		{"To", to},
		{"Date", date},
		{"Subject", subject},
	} {
		if h.value == "" {
			continue
		}
		b.WriteString(h.label)
		b.WriteString(": ")
		b.WriteString(h.value)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(body)

	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, nil
	}

	title := subject
	if title == "" {
		title = titleFromName(name)
	}

	meta := map[string]string{
		core.MetaTitle: title,
	}
	if date != "" {
		meta[core.MetaDate] = date
	}

	return []Item{{Text: text, Metadata: meta}}, nil
}

// decodeHeader decodes RFC 2047 encoded-word headers, falling back to the
// raw value on failure.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func messageBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		raw, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", fmt.Errorf("read body: %w", readErr)
		}
		return string(raw), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartBody(msg.Body, params["boundary"])
	}

	raw, err := io.ReadAll(decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding")))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if mediaType == "text/html" {
		return stripHTML(string(raw)), nil
	}
	return string(raw), nil
}

// multipartBody walks the parts of a multipart message, recursing into
// nested multiparts. Plain text parts win over HTML parts; attachments are
// skipped here and handled as separate source items by the connector.
func multipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "application/octet-stream"
		}

		content, readErr := io.ReadAll(decodeTransfer(part, partEncoding(part.Header)))
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, stripHTML(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, nestedErr := multipartBody(bytes.NewReader(content), params["boundary"])
			if nestedErr == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	return strings.Join(htmlParts, "\n"), nil
}

func partEncoding(header textproto.MIMEHeader) string {
	return header.Get("Content-Transfer-Encoding")
}

// decodeTransfer wraps r with a decoder for the declared
// Content-Transfer-Encoding. Unknown encodings pass through unchanged.
func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}
