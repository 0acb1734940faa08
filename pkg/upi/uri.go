package upi

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Scheme is the URI scheme understood by UPI payment apps.
const Scheme = "upi"

// PayParams carries everything needed to build a collect URI for a payee.
type PayParams struct {
	PayeeAddress string
	PayeeName    string
	Amount       decimal.Decimal
	Currency     string
	Note         string
	MerchantCode string
}

// BuildPayURI renders the upi://pay deep link encoded into payment QR codes.
// Parameter order follows the convention payment apps expect: pa, pn, am, cu,
// then the optional tn and mc.
func BuildPayURI(params PayParams) (string, error) {
	if strings.TrimSpace(params.PayeeAddress) == "" {
		return "", errors.New("payee address is required")
	}
	if strings.TrimSpace(params.PayeeName) == "" {
		return "", errors.New("payee name is required")
	}
	if !params.Amount.IsPositive() {
		return "", errors.New("amount must be positive")
	}
	currency := params.Currency
	if currency == "" {
		currency = "INR"
	}

	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString("://pay?pa=")
	b.WriteString(url.QueryEscape(params.PayeeAddress))
	b.WriteString("&pn=")
	b.WriteString(url.QueryEscape(params.PayeeName))
	b.WriteString("&am=")
	b.WriteString(params.Amount.StringFixed(2))
	b.WriteString("&cu=")
	b.WriteString(url.QueryEscape(currency))
	if params.Note != "" {
		b.WriteString("&tn=")
		b.WriteString(url.QueryEscape(params.Note))
	}
	if params.MerchantCode != "" {
		b.WriteString("&mc=")
		b.WriteString(url.QueryEscape(params.MerchantCode))
	}
	return b.String(), nil
}
