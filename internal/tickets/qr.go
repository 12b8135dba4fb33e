package tickets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
)

// ArtifactGenerator produces the scannable entry pass for a ticket.
// Generation is a fallible side-effect: a failed artifact never voids
// the ticket it belongs to.
type ArtifactGenerator interface {
	Generate(payload string, ticketID uuid.UUID) (string, error)
}

type qrGenerator struct {
	outputDir string
}

func NewQRGenerator(outputDir string) ArtifactGenerator {
	return &qrGenerator{outputDir: outputDir}
}

// BuildQRPayload encodes the fields gate staff verify on scan
func BuildQRPayload(eventID, ticketID uuid.UUID, account string) string {
	return fmt.Sprintf("Event:%s|Ticket:%s|User:%s", eventID, ticketID, account)
}

func (g *qrGenerator) Generate(payload string, ticketID uuid.UUID) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create qr output dir: %w", err)
	}

	qrc, err := qrcode.New(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr payload: %w", err)
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("ticket_%s_qr.png", ticketID))
	if err := qrc.Save(path); err != nil {
		return "", fmt.Errorf("failed to save qr image: %w", err)
	}

	return path, nil
}
