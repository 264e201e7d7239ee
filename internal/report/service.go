package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/signintech/gopdf"

	"medical-intake-engine/internal/conversation"
)

// TelegramClient is the messaging surface used to reach the on-call clinician.
type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

// Service renders intake summaries as PDF and delivers escalation alerts and
// summary documents to the clinician chat.
type Service struct {
	tgClient        TelegramClient
	clinicianChatID int64
}

func NewService(tg TelegramClient, clinicianChatID int64) *Service {
	return &Service{
		tgClient:        tg,
		clinicianChatID: clinicianChatID,
	}
}

// Font paths tried in order; DejaVuSans ships with the container images this
// service deploys into.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Render produces the PDF intake summary for a session snapshot.
func (s *Service) Render(snap conversation.Snapshot) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, errors.Wrap(fontErr, "failed to load font for PDF, ensure ttf-dejavu is installed")
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Medical Intake Summary")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session: %s", snap.SessionID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Stage: %s    Turns: %d    Context confidence: %.2f", snap.Stage, snap.TotalTurns, snap.Confidence))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session duration: %s", snap.SessionDuration.Round(time.Second)))
	pdf.Br(25)

	if len(snap.UrgencyMarkers) > 0 {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Urgency markers:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		s.writeWrapped(&pdf, "- "+strings.Join(snap.UrgencyMarkers, ", "))
		pdf.Br(10)
	}

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Symptoms in order of disclosure:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(snap.RecentSymptoms) == 0 {
		pdf.Cell(nil, "- No symptoms recorded.")
		pdf.Br(15)
	}
	for _, entry := range snap.RecentSymptoms {
		line := fmt.Sprintf("- Turn %d [%s]: %s", entry.Turn, entry.Symptom.Source, entry.Symptom.Name)
		if entry.Symptom.Detail != "" {
			line += " (" + entry.Symptom.Detail + ")"
		}
		s.writeWrapped(&pdf, line)
		pdf.Br(5)
	}
	pdf.Br(10)

	if len(snap.Demographics) > 0 {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Demographics:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for k, v := range snap.Demographics {
			s.writeWrapped(&pdf, fmt.Sprintf("- %s: %s", k, v))
		}
		pdf.Br(10)
	}

	if len(snap.RecentResponses) > 0 {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Guidance given:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		last := snap.RecentResponses[len(snap.RecentResponses)-1]
		s.writeWrapped(&pdf, last.Response)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write PDF")
	}
	return buf.Bytes(), nil
}

// SendEscalationAlert notifies the clinician chat that a session escalated.
func (s *Service) SendEscalationAlert(ctx context.Context, sessionID string, markers []string) error {
	text := fmt.Sprintf("EMERGENCY ESCALATION\nIntake session %s flagged for immediate review.", sessionID)
	if len(markers) > 0 {
		text += "\nMarkers: " + strings.Join(markers, ", ")
	}
	return s.tgClient.SendMessage(ctx, s.clinicianChatID, text)
}

// SendSummaryReport renders the summary and pushes it to the clinician chat.
func (s *Service) SendSummaryReport(ctx context.Context, snap conversation.Snapshot) error {
	data, err := s.Render(snap)
	if err != nil {
		return err
	}
	fileName := fmt.Sprintf("intake_%s.pdf", snap.SessionID)
	return s.tgClient.SendDocument(ctx, s.clinicianChatID, data, fileName)
}

func (s *Service) writeWrapped(pdf *gopdf.GoPdf, line string) {
	lines, _ := pdf.SplitText(line, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
}
