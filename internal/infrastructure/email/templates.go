package email

import "fmt"

func otpTemplate(title, otp string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
  <h2 style="color:#1f2937">%s</h2>
  <p>Use the code below to continue. It is valid for a limited time and can only be used once.</p>
  <p style="font-size:32px;letter-spacing:8px;font-weight:bold;color:#111827">%s</p>
  <p style="color:#6b7280;font-size:12px">If you did not request this, you can safely ignore this email.</p>
</div>`, title, otp)
}

func tagTemplate(taggerName string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
  <h2 style="color:#1f2937">You were tagged in a post</h2>
  <p><b>%s</b> tagged you in a post. Open the app to take a look.</p>
</div>`, taggerName)
}
