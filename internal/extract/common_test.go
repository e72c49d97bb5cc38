package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountCentsJPY(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"ご利用金額: 1,234円", 123400, true},
		{"980円のお支払い", 98000, true},
		{"¥12,000円", 1200000, true},
		{"合計 1,234,567 円", 123456700, true},
		{"no amount here", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := AmountCentsJPY(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTextualDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024年3月15日", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/03/15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/3/5", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-12-01", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTextualDate(tt.input)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}

	_, ok := ParseTextualDate("not a date")
	assert.False(t, ok)
}

func TestCardLast4(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"カード番号下4桁 1234", "1234"},
		{"カード番号末尾 5678", "5678"},
		{"**** 4321", "4321"},
		{"＊＊＊＊ 8765", "8765"},
		{"XXXX 9999", "9999"},
		{"カード番号: 1111", "1111"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CardLast4(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, CardLast4("数字なし"))
}

func TestTokenLast4(t *testing.T) {
	got := TokenLast4("トークン末尾 2468 のご利用")
	require.NotNil(t, got)
	assert.Equal(t, "2468", *got)

	assert.Nil(t, TokenLast4("トークンなし"))
}

func TestWalletTypeAndProductHint(t *testing.T) {
	apple := WalletType("Apple Payでのご利用")
	require.NotNil(t, apple)
	assert.Equal(t, "apple_pay", *apple)

	google := WalletType("グーグルペイ")
	require.NotNil(t, google)
	assert.Equal(t, "google_pay", *google)

	assert.Nil(t, WalletType("通常のカード利用"))

	quicpay := ProductHint("QUICPay利用分")
	require.NotNil(t, quicpay)
	assert.Equal(t, "QUICPay", *quicpay)
}

func TestLabeledLine(t *testing.T) {
	body := "ご利用内容\nご利用先: ネットフリックス\nご利用金額: 1,490円\n"

	assert.Equal(t, "ネットフリックス", LabeledLine(body, "ご利用先"))
	assert.Equal(t, "ネットフリックス", LabeledLine(body, "ご利用店舗", "ご利用先"))
	assert.Empty(t, LabeledLine(body, "ご利用店舗"))
}
