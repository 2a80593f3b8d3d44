package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

// EmailService delivers report download links via Amazon SES. When no sender
// address is configured the service is created disabled and every send is a
// logged no-op, so local setups work without AWS credentials.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	logger     zerolog.Logger
}

// NewEmailService creates the email service. An empty fromEmail yields a
// disabled service rather than an error.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, logger zerolog.Logger) (*EmailService, error) {
	log := logger.With().Str("service", "email").Logger()

	if fromEmail == "" {
		log.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, logger: log}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("email service enabled")
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		logger:     log,
	}, nil
}

// IsEnabled reports whether emails will actually be sent.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendReportLinkEmail sends a "progress report ready" email carrying a signed
// download link for the given token.
func (s *EmailService) SendReportLinkEmail(ctx context.Context, toEmail, childName, token string) error {
	if !s.enabled {
		s.logger.Info().Str("to", toEmail).Msg("skipping report email: service disabled")
		return nil
	}

	downloadLink := fmt.Sprintf("%s/api/reports/download?token=%s", s.appBaseURL, token)
	displayName := childName
	if displayName == "" {
		displayName = "your child"
	}

	subject := fmt.Sprintf("Progress report for %s is ready", displayName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2e7d6e; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #2e7d6e; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Progress Report Ready</h1>
		</div>
		<div class="content">
			<p>Hello,</p>
			<p>The latest progress report for %s has been generated and is ready to download.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Download Report (PDF)</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This link expires after a short period.</strong></p>
		</div>
		<div class="footer">
			<p>This is an automated email from SpeakWise. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, displayName, downloadLink, downloadLink)

	textBody := fmt.Sprintf(`Hello,

The latest progress report for %s has been generated and is ready to download:
%s

This link expires after a short period.

---
This is an automated email from SpeakWise. Please do not reply.
`, displayName, downloadLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends one email through SES.
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}

	s.logger.Info().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}
