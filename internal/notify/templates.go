package notify

import "fmt"

// Outcome mail for the two terminal application statuses.

func OfferedSubject(companyName string) string {
	return fmt.Sprintf("Congratulations! You've been shortlisted at %s", companyName)
}

func OfferedBody(jobTitle, companyName string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #10b981;">Congratulations!</h2>
  <p>Dear Candidate,</p>
  <p>We are pleased to inform you that you have been <strong>shortlisted for the next round</strong> for the position of <strong>%s</strong> at <strong>%s</strong>.</p>
  <p>Your application and AI screening interview impressed us, and we would like to move forward with you in our hiring process.</p>
  <p><strong>Next Steps:</strong></p>
  <ul>
    <li>Our team will contact you shortly with further details</li>
    <li>Please keep an eye on your email for interview scheduling</li>
  </ul>
  <p>We look forward to speaking with you soon!</p>
  <br/>
  <p>Best regards,<br/>
  <strong>%s Hiring Team</strong></p>
</div>`, jobTitle, companyName, companyName)
}

func RejectedSubject(companyName string) string {
	return fmt.Sprintf("Update on your application at %s", companyName)
}

func RejectedBody(jobTitle, companyName string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #6b7280;">Application Update</h2>
  <p>Dear Candidate,</p>
  <p>Thank you for your interest in the <strong>%s</strong> position at <strong>%s</strong> and for taking the time to complete our application process.</p>
  <p>After careful consideration of your application and qualifications, we have decided to move forward with other candidates whose experience more closely matches our current needs.</p>
  <p>We appreciate the time and effort you invested in applying, and we encourage you to explore other opportunities with us in the future.</p>
  <p>We wish you the very best in your job search and career endeavors.</p>
  <br/>
  <p>Best regards,<br/>
  <strong>%s Hiring Team</strong></p>
</div>`, jobTitle, companyName, companyName)
}
