package sendnotification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"recruitment-portal/internal/models"
)

// submittedAtLayout matches how the club shows dates: day/month/year, 12 hour clock.
const submittedAtLayout = "02/01/2006, 3:04:05 pm"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: 'Inter', Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f4f4f4; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 20px auto; background: white; border-radius: 8px; overflow: hidden; }
    .header { background: linear-gradient(135deg, #ffc700 0%, #ffb700 100%); padding: 40px 30px; text-align: center; color: white; }
    .content { padding: 30px; }
    .detail-box { background: #f9f9f9; border-left: 4px solid #ffc700; padding: 15px; margin: 20px 0; border-radius: 4px; }
    .positions-list { background: #fff9e6; padding: 15px; border-radius: 5px; margin: 15px 0; }
    .next-steps { background: #e6f7ff; border-left: 4px solid #1890ff; padding: 15px; margin: 20px 0; border-radius: 4px; }
    .footer { background: #0f0f1e; color: #e0e0e0; padding: 25px 20px; text-align: center; font-size: 14px; }
    .footer a { color: #ffc700; text-decoration: none; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>✓ Application Received Successfully</h1>
      <p>Standards Club Board Recruitment {{.Year}}</p>
    </div>
    <div class="content">
      <p>Dear <strong>{{.Name}}</strong>,</p>
      <p>Thank you for applying to join the <strong>Standards Club Board</strong> for {{.Year}}!</p>
      <p>We have successfully received your application. Here are your submission details:</p>
      <div class="detail-box">
        <h3>📋 APPLICATION DETAILS</h3>
        <div><strong>Application ID:</strong> {{.ApplicationID}}</div>
        <div><strong>Email:</strong> {{.Email}}</div>
        <div><strong>Registration Number:</strong> {{.RegNumber}}</div>
        <div><strong>Submitted On:</strong> {{.SubmittedOn}}</div>
      </div>
      <div class="positions-list">
        <strong>POSITIONS APPLIED:</strong><br><br>
        {{range $i, $p := .Positions}}{{if $i}}<br>{{end}}🎯 <strong>{{$p.PositionName}}</strong> (Preference: {{$p.Preference}}){{end}}
      </div>
      <div class="next-steps">
        <h3>📅 WHAT'S NEXT?</h3>
        <p>We will carefully review all applications and shortlisted candidates will be contacted for interviews within <strong>2-3 weeks</strong>. Keep an eye on your inbox (and spam folder!) for interview notifications.</p>
      </div>
      <div class="detail-box">
        <h3>❓ QUESTIONS?</h3>
        <p>If you have any queries regarding your application, feel free to contact us:</p>
        {{if .AdminEmail}}<div>📧 Email: <a href="mailto:{{.AdminEmail}}">{{.AdminEmail}}</a></div>{{end}}
        {{if .AdminPhone}}<div>📱 Phone: {{.AdminPhone}}</div>{{end}}
        <div>💬 Support: <a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a></div>
      </div>
      <p>Best Regards,<br><strong>Standards Club VIT Vellore</strong></p>
      {{if .WebsiteURL}}<p style="text-align: center;"><a href="{{.WebsiteURL}}">Visit Our Website</a></p>{{end}}
    </div>
    <div class="footer">
      <p><strong>Standards Club VIT Vellore</strong><br>Building Excellence, Setting Standards</p>
      <p style="font-size: 12px; color: #888;">This is an automated email. Please do not reply directly to this message.</p>
    </div>
  </div>
</body>
</html>
`))

type confirmationData struct {
	Year          string
	Name          string
	ApplicationID string
	Email         string
	RegNumber     string
	SubmittedOn   string
	Positions     []models.PositionEntry
	AdminEmail    string
	AdminPhone    string
	SupportEmail  string
	WebsiteURL    string
}

// Render builds the confirmation message for a stored application.
func (c *Config) Render(app *models.Application) (*models.ConfirmationMessage, error) {
	data := confirmationData{
		Year:          c.RecruitmentYear,
		Name:          app.Name,
		ApplicationID: app.ApplicationID,
		Email:         app.Email,
		RegNumber:     app.RegNumber,
		SubmittedOn:   FormatSubmittedAt(app, c.Location),
		Positions:     app.Positions,
		AdminEmail:    c.AdminEmail,
		AdminPhone:    c.AdminPhone,
		SupportEmail:  c.SupportEmail,
		WebsiteURL:    c.WebsiteURL,
	}

	var html bytes.Buffer
	if err := confirmationTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}

	return &models.ConfirmationMessage{
		From:     c.From(),
		To:       app.Email,
		CC:       c.CC,
		Subject:  c.Subject,
		HTMLBody: html.String(),
		TextBody: renderText(data),
	}, nil
}

func FormatSubmittedAt(app *models.Application, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return app.SubmittedAt.In(loc).Format(submittedAtLayout)
}

func renderText(d confirmationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.Name)
	fmt.Fprintf(&b, "Thank you for applying to join the Standards Club Board for %s.\n\n", d.Year)
	fmt.Fprintf(&b, "Application ID: %s\n", d.ApplicationID)
	fmt.Fprintf(&b, "Email: %s\n", d.Email)
	fmt.Fprintf(&b, "Registration Number: %s\n", d.RegNumber)
	fmt.Fprintf(&b, "Submitted On: %s\n\n", d.SubmittedOn)
	b.WriteString("Positions applied:\n")
	for _, p := range d.Positions {
		fmt.Fprintf(&b, "  - %s (Preference: %d)\n", p.PositionName, p.Preference)
	}
	b.WriteString("\nShortlisted candidates will be contacted for interviews within 2-3 weeks.\n")
	if d.AdminEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", d.AdminEmail)
	}
	if d.AdminPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.AdminPhone)
	}
	fmt.Fprintf(&b, "Support: %s\n\nStandards Club VIT Vellore\n", d.SupportEmail)
	return b.String()
}
