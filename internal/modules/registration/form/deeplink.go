package form

import (
	"net/url"
	"strings"
	"unicode"
)

const waBaseURL = "https://wa.me/"

// NormalizePhone keeps only the digits of phone, so "+62 812-3456" becomes "628123456".
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
}

// EncodeText percent-encodes text for a query value, spaces as %20.
func EncodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DeepLink builds the wa.me link that opens a chat with phone prefilled with text.
func DeepLink(phone, text string) string {
	return waBaseURL + NormalizePhone(phone) + "?text=" + EncodeText(text)
}
