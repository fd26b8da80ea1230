package utils

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsappBase = "https://wa.me/"

// NormalizePhone keeps digits only; bare 10-digit numbers get the 91 country code.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return "91" + digits
	}
	return digits
}

// WhatsAppURL builds a click-to-chat deep link carrying a prefilled message.
func WhatsAppURL(phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsappBase + NormalizePhone(phone) + "?text=" + text
}

func BillMessage(restaurantName string, total float64, billURL string) string {
	return fmt.Sprintf("Thank you for dining at %s! Your total bill is Rs. %.2f. Please find your detailed bill here: %s",
		restaurantName, total, billURL)
}

// BillURL joins the public site URL and the bill path.
func BillURL(siteURL, billID string) string {
	return strings.TrimRight(siteURL, "/") + "/bill/" + billID
}

// ShortID is the prefix of an id shown to people.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
