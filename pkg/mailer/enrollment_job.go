package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// EnrollmentJob is the JSON payload put on the RabbitMQ queue when a user
// enrolls in a course. The worker renders and sends the confirmation email.
type EnrollmentJob struct {
	To          string `json:"to"`
	UserID      string `json:"user_id"`
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

var enrollmentHTML = template.Must(template.New("enrollment").Parse(`<html>
<body>
  <h2>You're enrolled!</h2>
  <p>Your enrollment in <strong>{{.CourseTitle}}</strong> is confirmed.</p>
  <p>Head back to your dashboard to start learning.</p>
</body>
</html>`))

// Subject returns the confirmation email subject line.
func (j EnrollmentJob) Subject() string {
	return fmt.Sprintf("You're enrolled in %s", j.CourseTitle)
}

// Text returns the plain-text fallback body.
func (j EnrollmentJob) Text() string {
	return fmt.Sprintf("Your enrollment in %q is confirmed. Head back to your dashboard to start learning.", j.CourseTitle)
}

// HTML renders the HTML body.
func (j EnrollmentJob) HTML() (string, error) {
	var buf bytes.Buffer
	if err := enrollmentHTML.Execute(&buf, j); err != nil {
		return "", err
	}
	return buf.String(), nil
}
