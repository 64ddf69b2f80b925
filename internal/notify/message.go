package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/marden/adrival/internal/models"
)

// SMSBody renders one ad as a text message.
func SMSBody(ad models.Ad) string {
	return fmt.Sprintf("🎯 %s\n\n%s\n\n%s\n\nHashtags: %s",
		ad.Headline, ad.AdText, ad.CTA, strings.Join(ad.Hashtags, ", "))
}

// EmailSubject renders the subject line for one ad.
func EmailSubject(ad models.Ad) string {
	return "🎯 New Ad Campaign: " + ad.Headline
}

// EmailText renders the plain-text alternative body.
func EmailText(ad models.Ad) string {
	return fmt.Sprintf("New Ad Campaign: %s\n\n%s\n\n%s", ad.Headline, ad.AdText, ad.CTA)
}

// EmailHTML renders the styled HTML body.
func EmailHTML(ad models.Ad) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">🎯 New Ad Campaign</h2>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="color: #e74c3c; margin-top: 0;">%s</h3>
      <p style="font-size: 16px;">%s</p>
      <p style="text-align: center; margin: 20px 0;">
        <strong style="background: #3498db; color: white; padding: 12px 24px; border-radius: 5px; display: inline-block;">%s</strong>
      </p>
      <p style="color: #7f8c8d; font-size: 14px;">Hashtags: %s</p>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(ad.Headline),
		html.EscapeString(ad.AdText),
		html.EscapeString(ad.CTA),
		html.EscapeString(strings.Join(ad.Hashtags, ", ")))
}
