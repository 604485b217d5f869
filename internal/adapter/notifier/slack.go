package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civiclens/turfwatch/internal/adapter/metrics"
	"github.com/civiclens/turfwatch/internal/core/ports"
)

const (
	// defaultThreshold is the minimum probability or confidence a finding
	// needs before it is worth a Slack message
	defaultThreshold = 70

	// maxEvidenceItems caps evidence lines per message to keep blocks readable
	maxEvidenceItems = 5

	// sendTimeout bounds one webhook delivery including retries
	sendTimeout = 30 * time.Second
)

type SlackNotifier struct {
	webhookURL  string
	mentionTeam string
	threshold   int
	client      *ResilientClient
}

func NewSlackNotifier(webhookURL, mentionTeam string, threshold int) *SlackNotifier {
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return &SlackNotifier{
		webhookURL:  webhookURL,
		mentionTeam: mentionTeam,
		threshold:   threshold,
		client:      NewResilientClient(10*time.Second, DefaultResilientClientConfig()),
	}
}

// NotifyConnection sends a formatted message for a detected correlation.
// Connections below the configured probability threshold are skipped
func (s *SlackNotifier) NotifyConnection(conn ports.ConnectionNotification) error {
	if conn.Probability < s.threshold {
		metrics.RecordNotification("skipped")
		return nil
	}

	blocks := s.buildConnectionBlocks(conn)

	payload := SlackMessage{
		Blocks: blocks,
		Text:   fmt.Sprintf("🔗 Coordination pattern detected: %s (%d/100)", conn.Type, conn.Probability),
	}

	return s.sendMessage(payload)
}

// NotifyAlert sends a formatted message for a newly raised alert.
// Alerts below the configured confidence threshold are skipped
func (s *SlackNotifier) NotifyAlert(alert ports.AlertNotification) error {
	if alert.Confidence < s.threshold {
		metrics.RecordNotification("skipped")
		return nil
	}

	blocks := s.buildAlertBlocks(alert)

	payload := SlackMessage{
		Blocks: blocks,
		Text:   fmt.Sprintf("🚨 %s", alert.Title),
	}

	return s.sendMessage(payload)
}

// NotifyScanSummary sends a digest after a scan cycle. Quiet scans with no
// new alerts, no connections and sub-threshold confidence stay silent
func (s *SlackNotifier) NotifyScanSummary(sum ports.ScanSummary) error {
	if sum.NewAlerts == 0 && sum.Connections == 0 && sum.Confidence < s.threshold {
		metrics.RecordNotification("skipped")
		return nil
	}

	blocks := s.buildScanSummaryBlocks(sum)

	payload := SlackMessage{
		Blocks: blocks,
		Text:   fmt.Sprintf("📡 Scan complete: confidence %d/100, %d new alerts", sum.Confidence, sum.NewAlerts),
	}

	return s.sendMessage(payload)
}

// Build Slack message blocks for a detected connection
func (s *SlackNotifier) buildConnectionBlocks(conn ports.ConnectionNotification) []SlackBlock {
	blocks := []SlackBlock{
		// Header
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: "🔗 Coordination Pattern Detected",
			},
		},
		// Connection details
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Pattern*\n`%s`", conn.Type)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Probability*\n%d/100", conn.Probability)},
			},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: conn.Description,
			},
		},
		{
			Type: "divider",
		},
	}

	// Evidence list, capped to keep the message short
	if len(conn.Evidence) > 0 {
		evidenceText := "*Evidence*\n"
		for i, item := range conn.Evidence {
			if i >= maxEvidenceItems {
				evidenceText += fmt.Sprintf("_...and %d more_\n", len(conn.Evidence)-maxEvidenceItems)
				break
			}
			evidenceText += fmt.Sprintf("• %s\n", item)
		}

		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: evidenceText,
			},
		})
	}

	// Mention team if configured
	if s.mentionTeam != "" {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("🔔 %s", s.mentionTeam),
			},
		})
	}

	return blocks
}

// Build Slack message blocks for a raised alert
func (s *SlackNotifier) buildAlertBlocks(alert ports.AlertNotification) []SlackBlock {
	// Choose emoji based on how hot the alert is
	emoji := "🟡"
	if alert.Confidence >= 80 {
		emoji = "🟠"
	}
	if alert.Confidence >= 90 {
		emoji = "🔴"
	}

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: fmt.Sprintf("%s New Alert Raised", emoji),
			},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%s*\n%s", alert.Title, alert.Description),
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Confidence*\n%d/100", alert.Confidence)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Sources*\n%s", strings.Join(alert.Sources, ", "))},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Detected*\n%s", alert.Timestamp)},
			},
		},
	}

	if s.mentionTeam != "" {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("🔔 %s", s.mentionTeam),
			},
		})
	}

	return blocks
}

// Build Slack message blocks for the end-of-scan digest
func (s *SlackNotifier) buildScanSummaryBlocks(sum ports.ScanSummary) []SlackBlock {
	// Confidence footer emoji mirrors the narrative tiers
	confidenceEmoji := "🟢"
	if sum.Confidence >= 40 {
		confidenceEmoji = "🟡"
	}
	if sum.Confidence >= 70 {
		confidenceEmoji = "🔴"
	}

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: "📡 Astroturfing Scan Summary",
			},
		},
		{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: sum.Narrative,
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Confidence*\n%s %d/100", confidenceEmoji, sum.Confidence)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Records*\n%d jobs, %d orgs, %d articles", sum.Jobs, sum.Orgs, sum.News)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Connections*\n%d", sum.Connections)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*New Alerts*\n%d", sum.NewAlerts)},
			},
		},
	}

	if len(sum.HotStates) > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Hot States*: %s", strings.Join(sum.HotStates, ", ")),
			},
		})
	}

	blocks = append(blocks,
		SlackBlock{Type: "divider"},
		SlackBlock{
			Type: "context",
			Elements: []SlackText{
				{
					Type: "mrkdwn",
					Text: fmt.Sprintf("⏱ Duration: *%s* | Scan: `%s`", sum.Duration, sum.ScanID),
				},
			},
		},
	)

	if s.mentionTeam != "" && sum.NewAlerts > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("🔔 %s", s.mentionTeam),
			},
		})
	}

	return blocks
}

// Send message to the configured webhook
func (s *SlackNotifier) sendMessage(msg SlackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		metrics.RecordNotification("error")
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	resp, err := s.client.Post(ctx, s.webhookURL, jsonData)
	if err != nil {
		metrics.RecordNotification("error")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordNotification("error")
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	metrics.RecordNotification("sent")
	return nil
}

// Slack webhook structures

type SlackMessage struct {
	Blocks []SlackBlock `json:"blocks"`
	Text   string       `json:"text"` // Fallback text
}

type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
