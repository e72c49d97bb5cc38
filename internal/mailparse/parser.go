package mailparse

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPayload means there was nothing to parse.
	ErrEmptyPayload = errors.New("mailparse: empty payload")
	// ErrNotMail means the content looked framed but could not be parsed.
	ErrNotMail = errors.New("mailparse: content is not a parsable message")
)

// ParsedMail is the normalized form of one raw message payload.
type ParsedMail struct {
	MessageID string
	From      string
	Subject   string
	Date      string // raw Date header value, empty if absent
	Body      string
	Headers   map[string]string
}

// headerLine matches an RFC 822 style "Name: value" first line.
var headerLine = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:\s`)

// Parse turns raw bytes into a ParsedMail. Plain pasted text without a
// header-style prefix is wrapped as a body-only message instead of failing.
func Parse(content []byte) (*ParsedMail, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyPayload
	}

	if !looksFramed(content) {
		return &ParsedMail{
			Body:    string(content),
			Headers: map[string]string{},
		}, nil
	}

	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMail, err)
	}

	body, err := decodeBody(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMail, err)
	}

	headers := make(map[string]string, len(msg.Header))
	for name, values := range msg.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	return &ParsedMail{
		MessageID: strings.Trim(msg.Header.Get("Message-Id"), "<>"),
		From:      msg.Header.Get("From"),
		Subject:   decodeSubject(msg.Header.Get("Subject")),
		Date:      msg.Header.Get("Date"),
		Body:      body,
		Headers:   headers,
	}, nil
}

func looksFramed(content []byte) bool {
	firstLine := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	return headerLine.Match(firstLine)
}

func decodeSubject(raw string) string {
	decoder := mime.WordDecoder{}
	decoded, err := decoder.DecodeHeader(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func decodeBody(msg *mail.Message) (string, error) {
	var reader io.Reader = msg.Body
	switch strings.ToLower(msg.Header.Get("Content-Transfer-Encoding")) {
	case "quoted-printable":
		reader = quotedprintable.NewReader(msg.Body)
	case "base64":
		reader = base64.NewDecoder(base64.StdEncoding, msg.Body)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
