package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends audit reports via Teams and email
type Service struct {
	config *config.Config
	client *resty.Client
	dialer func() gomail.SendCloser
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport sends a report via every configured channel
func (s *Service) SendReport(report *models.Report) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Sent audit report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Sent audit report via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SendAlert posts a single alert card to Teams. Alerts are not emailed.
func (s *Service) SendAlert(alert *models.Alert) error {
	if s.config.TeamsWebhookURL == "" {
		logrus.Infof("Alert not sent, Teams is not configured: %s - %s", alert.Type, alert.Title)
		return nil
	}

	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: alertColor(alert.Type),
		Title:      alert.Title,
		Text:       alert.Message,
	}
	if alert.Result != nil {
		message.Sections = []TeamsSection{resultSection(*alert.Result)}
	}

	if err := s.postToTeams(message); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}

func (s *Service) postToTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("BrandPulse Sponsorship Report - %s", titleCase(report.Period)),
		Text:    fmt.Sprintf("Audited %d brands", report.TotalAudits),
	}

	for _, result := range report.Results {
		message.Sections = append(message.Sections, resultSection(result))
	}

	return message
}

func resultSection(result models.AnalysisResult) TeamsSection {
	insights := result.SponsorshipInsights
	facts := []TeamsFact{
		{Name: "Verdict", Value: insights.Verdict},
		{Name: "Overall Score", Value: fmt.Sprintf("%.0f/100", result.OverallScore)},
		{Name: "Brand Safety", Value: fmt.Sprintf("%.0f/100", insights.BrandSafetyScore)},
		{Name: "Engagement", Value: insights.EngagementRate},
		{Name: "Posts", Value: postCounts(result)},
	}
	if len(insights.RiskFactors) > 0 {
		facts = append(facts, TeamsFact{Name: "Risks", Value: strings.Join(insights.RiskFactors, ", ")})
	}

	return TeamsSection{
		ActivityTitle:    result.BrandName,
		ActivitySubtitle: insights.GrowthTrend,
		ActivityText:     result.Summary,
		Facts:            facts,
		Markdown:         true,
	}
}

func (s *Service) sendEmail(report *models.Report) error {
	subject := fmt.Sprintf("BrandPulse Sponsorship Report - %s (%d brands)",
		titleCase(report.Period), report.TotalAudits)

	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if s.dialer != nil {
		sender := s.dialer()
		defer sender.Close()
		return gomail.Send(sender, m)
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>BrandPulse Sponsorship Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #4f46e5; color: white; padding: 20px; border-radius: 5px; }
        .audit { border-left: 4px solid #6b7280; padding: 10px; margin: 16px 0; background-color: #fafafa; }
        .green { border-left-color: #16a34a; }
        .blue { border-left-color: #2563eb; }
        .yellow { border-left-color: #eab308; }
        .red { border-left-color: #dc2626; }
        .meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>BrandPulse Sponsorship Report</h1>
        <p>{{.Period | title}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM MST"}}</p>
    </div>

    {{range .Results}}
    <div class="audit {{verdictTone .SponsorshipInsights.Verdict}}">
        <h2>{{.BrandName}}: {{.SponsorshipInsights.Verdict}}</h2>
        <p class="meta">
            Score {{printf "%.0f" .OverallScore}}/100 | Brand safety {{printf "%.0f" .SponsorshipInsights.BrandSafetyScore}}/100 |
            {{postCounts .}}
        </p>
        <p>{{.Summary | truncate 400}}</p>
        {{if .SponsorshipInsights.RiskFactors}}
        <p><strong>Risks:</strong> {{join .SponsorshipInsights.RiskFactors ", "}}</p>
        {{end}}
        {{if .Sources}}
        <p class="meta">{{len .Sources}} cited sources</p>
        {{end}}
    </div>
    {{end}}

    <hr>
    <p><small>This report was generated automatically by BrandPulse AI.</small></p>
</body>
</html>
`

var emailFuncs = template.FuncMap{
	"title":      titleCase,
	"truncate":   truncate,
	"join":       strings.Join,
	"postCounts": postCounts,
	"verdictTone": func(verdict string) string {
		switch verdict {
		case models.VerdictHighlyRecommended:
			return "green"
		case models.VerdictRecommended:
			return "blue"
		case models.VerdictCaution:
			return "yellow"
		case models.VerdictNotRecommended:
			return "red"
		}
		return ""
	},
}

func buildEmailHTML(report *models.Report) (string, error) {
	t, err := template.New("email").Funcs(emailFuncs).Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("BrandPulse Sponsorship Report - %s\n", titleCase(report.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	for i, result := range report.Results {
		insights := result.SponsorshipInsights
		text.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, result.BrandName, insights.Verdict))
		text.WriteString(fmt.Sprintf("   Score: %.0f/100 | Brand safety: %.0f/100 | Engagement: %s\n",
			result.OverallScore, insights.BrandSafetyScore, insights.EngagementRate))
		text.WriteString(fmt.Sprintf("   Posts: %s\n", postCounts(result)))
		if result.Summary != "" {
			text.WriteString(fmt.Sprintf("   %s\n", truncate(200, result.Summary)))
		}
		if len(insights.RiskFactors) > 0 {
			text.WriteString(fmt.Sprintf("   Risks: %s\n", strings.Join(insights.RiskFactors, ", ")))
		}
		text.WriteString("\n")
	}

	text.WriteString("---\nThis report was generated automatically by BrandPulse AI.\n")

	return text.String()
}

func alertColor(alertType string) string {
	switch alertType {
	case "critical":
		return "d13438"
	case "urgent":
		return "ff8c00"
	default:
		return "0078d4"
	}
}

// postCounts renders reported counts without a fraction or exponent, e.g. "12 (8 positive, 3 neutral, 1 negative)"
func postCounts(result models.AnalysisResult) string {
	dist := result.SentimentDistribution
	return fmt.Sprintf("%s (%s positive, %s neutral, %s negative)",
		formatCount(result.TotalPosts), formatCount(dist.Positive), formatCount(dist.Neutral), formatCount(dist.Negative))
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate takes length first so it can be piped in templates
func truncate(length int, s string) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
