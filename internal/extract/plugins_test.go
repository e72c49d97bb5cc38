package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardtrack/internal/mailparse"
)

func smbcMail() *mailparse.ParsedMail {
	return &mailparse.ParsedMail{
		MessageID: "smbc-1@vpass.ne.jp",
		From:      "statement@vpass.ne.jp",
		Subject:   "ご利用のお知らせ【三井住友カード】",
		Date:      "Fri, 15 Mar 2024 10:00:00 +0900",
		Body: "三井住友カードをご利用いただきありがとうございます。\n" +
			"ご利用日: 2024年3月15日\n" +
			"ご利用先: ネットフリックス\n" +
			"ご利用金額: 1,490円\n" +
			"カード番号末尾 1234\n",
		Headers: map[string]string{},
	}
}

func TestSMBCVpassScoreAndExtract(t *testing.T) {
	e := &SMBCVpassExtractor{}
	m := smbcMail()

	assert.InDelta(t, 1.0, e.Score(m), 0.001)

	result := e.Extract(m)
	require.NotNil(t, result)
	assert.Equal(t, int64(149000), result.AmountCents)
	assert.Equal(t, "JPY", result.Currency)
	assert.Equal(t, "ネットフリックス", result.MerchantRaw)
	assert.Equal(t, "smbc", result.Issuer)
	require.NotNil(t, result.CardLast4)
	assert.Equal(t, "1234", *result.CardLast4)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), result.PurchasedAt)
}

func TestSMBCExtractNilWithoutAmount(t *testing.T) {
	m := smbcMail()
	m.Body = "三井住友カードからのお知らせです。金額の記載はありません。"

	assert.Nil(t, (&SMBCVpassExtractor{}).Extract(m))
}

func TestSMBCNumberlessFlag(t *testing.T) {
	m := smbcMail()
	m.Body = "ナンバーレスカードのご利用\nご利用金額: 500円\n"

	result := (&SMBCVpassExtractor{}).Extract(m)
	require.NotNil(t, result)
	assert.Nil(t, result.CardLast4)
	require.NotNil(t, result.Flags)
	assert.Equal(t, true, result.Flags["numberless"])
}

func TestRakutenSummary(t *testing.T) {
	e := &RakutenSummaryExtractor{}
	m := &mailparse.ParsedMail{
		From:    "info@mail.rakuten-card.co.jp",
		Subject: "カード利用お知らせメール(速報版)",
		Body: "楽天カードをご利用いただきありがとうございます。\n" +
			"ご利用日 2024/04/01\n" +
			"ご利用金額 3,980円\n" +
			"Apple Payでのご利用\n" +
			"トークン末尾 5678\n",
		Headers: map[string]string{},
	}

	assert.InDelta(t, 1.0, e.Score(m), 0.001)

	result := e.Extract(m)
	require.NotNil(t, result)
	assert.Equal(t, int64(398000), result.AmountCents)
	assert.Equal(t, "rakuten", result.Issuer)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), result.PurchasedAt)
	require.NotNil(t, result.WalletType)
	assert.Equal(t, "apple_pay", *result.WalletType)
	require.NotNil(t, result.TokenLast4)
	assert.Equal(t, "5678", *result.TokenLast4)
}

func TestMUFGNicos(t *testing.T) {
	e := &MUFGNicosExtractor{}
	m := &mailparse.ParsedMail{
		From:    "notice@mufg-card.com",
		Subject: "【MUFGカード】ご利用のお知らせ",
		Body: "ご利用内容: コンビニエンスストア\n" +
			"ご利用日時: 2024/05/20\n" +
			"ご利用金額: 820円\n" +
			"iD利用分\n",
		Headers: map[string]string{},
	}

	assert.GreaterOrEqual(t, e.Score(m), 0.9)

	result := e.Extract(m)
	require.NotNil(t, result)
	assert.Equal(t, int64(82000), result.AmountCents)
	assert.Equal(t, "mufg", result.Issuer)
	assert.Equal(t, "コンビニエンスストア", result.MerchantRaw)
	require.NotNil(t, result.ProductHint)
	assert.Equal(t, "iD", *result.ProductHint)
}

func TestEposUsage(t *testing.T) {
	e := &EposUsageExtractor{}
	m := &mailparse.ParsedMail{
		From:    "mail@01epos.jp",
		Subject: "エポスカードご利用のお知らせ",
		Body: "エポスカードのご利用がありました。\n" +
			"ご利用日時: 2024年6月2日\n" +
			"ご利用店舗: スーパーマーケット\n" +
			"ご利用金額: 2,500円\n" +
			"下4桁 9876\n",
		Headers: map[string]string{},
	}

	assert.InDelta(t, 1.0, e.Score(m), 0.001)

	result := e.Extract(m)
	require.NotNil(t, result)
	assert.Equal(t, int64(250000), result.AmountCents)
	assert.Equal(t, "epos", result.Issuer)
	assert.Equal(t, "スーパーマーケット", result.MerchantRaw)
	require.NotNil(t, result.CardLast4)
	assert.Equal(t, "9876", *result.CardLast4)
}

func TestDefaultRegistryDispatchesSMBCMail(t *testing.T) {
	registry := DefaultRegistry(0.3)

	result := registry.BestMatch(smbcMail())
	require.NotNil(t, result)
	assert.Equal(t, "smbc", result.Issuer)
}
