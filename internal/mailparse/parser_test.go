package mailparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFramedMessage(t *testing.T) {
	raw := []byte("From: usage@vpass.ne.jp\r\n" +
		"Subject: =?UTF-8?B?44GU5Yip55So44Gu44GK55+l44KJ44Gb?=\r\n" +
		"Message-Id: <abc123@vpass.ne.jp>\r\n" +
		"Date: Tue, 02 Jan 2024 15:04:05 +0900\r\n" +
		"\r\n" +
		"ご利用金額: 1,234円\r\n")

	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "abc123@vpass.ne.jp", parsed.MessageID)
	assert.Equal(t, "usage@vpass.ne.jp", parsed.From)
	assert.Equal(t, "ご利用のお知らせ", parsed.Subject)
	assert.Contains(t, parsed.Body, "1,234円")
	assert.Equal(t, "usage@vpass.ne.jp", parsed.Headers["From"])
}

func TestParsePlainTextFallback(t *testing.T) {
	raw := []byte("ご利用金額 1,234円\nありがとうございます\n")

	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Empty(t, parsed.MessageID)
	assert.Empty(t, parsed.From)
	assert.Equal(t, string(raw), parsed.Body)
	assert.Empty(t, parsed.Headers)
}

func TestParseEmptyPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte("   \n ")} {
		_, err := Parse(payload)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	}
}

func TestParseMalformedFraming(t *testing.T) {
	raw := []byte("Subject: hello\nthis line is not a header\n\nbody\n")

	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrNotMail)
}

func TestParseQuotedPrintableBody(t *testing.T) {
	raw := []byte("From: a@example.com\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"amount=3D500\r\n")

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, parsed.Body, "amount=500")
}
