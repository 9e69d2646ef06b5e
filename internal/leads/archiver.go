package leads

import (
	"context"
	"encoding/json"
	"time"

	"github.com/glowcart/sales-agent/internal/extract"
	"github.com/glowcart/sales-agent/internal/observability/metrics"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// LeadRecord is what gets sealed into the archive. Only messages that carry
// at least one contact field produce a record.
type LeadRecord struct {
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// Archiver extracts contact details from raw customer text and writes them,
// encrypted, to the configured sinks. Archiving is best effort: failures are
// logged and never reach the conversation path.
type Archiver struct {
	cipher  *Cipher
	file    *FileLog
	s3      *S3Log
	metrics *metrics.ConversationMetrics
	logger  *logging.Logger
}

// NewArchiver creates a lead archiver. file and s3 may each be nil.
func NewArchiver(cipher *Cipher, file *FileLog, s3 *S3Log, m *metrics.ConversationMetrics, logger *logging.Logger) *Archiver {
	if cipher == nil {
		panic("leads: cipher required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiver{cipher: cipher, file: file, s3: s3, metrics: m, logger: logger}
}

// Record captures any contact details present in text. Messages with no
// contact details are ignored.
func (a *Archiver) Record(ctx context.Context, text string) {
	fields := extract.Contact(text)
	if fields.Empty() {
		return
	}

	record := LeadRecord{
		Name:       fields.Name,
		Phone:      fields.Phone,
		Email:      fields.Email,
		Address:    fields.Address,
		CapturedAt: time.Now().UTC(),
	}
	plaintext, err := json.Marshal(record)
	if err != nil {
		a.logger.Error("failed to encode lead record", "error", err)
		return
	}

	sealed, err := a.cipher.Seal(plaintext)
	if err != nil {
		a.logger.Error("failed to seal lead record", "error", err)
		return
	}

	if a.file != nil {
		if err := a.file.Append(sealed); err != nil {
			a.logger.Error("failed to append lead record", "error", err)
		} else {
			a.metrics.IncLeadArchived("file")
		}
	}
	if a.s3.Enabled() {
		if err := a.s3.Put(ctx, sealed); err != nil {
			a.logger.Error("failed to mirror lead record to s3", "error", err)
		} else {
			a.metrics.IncLeadArchived("s3")
		}
	}
}

// Export decrypts every record in the file log, skipping lines that fail to
// decode rather than aborting the export.
func (a *Archiver) Export() ([]LeadRecord, error) {
	if a.file == nil {
		return nil, nil
	}
	lines, err := a.file.Lines()
	if err != nil {
		return nil, err
	}

	records := make([]LeadRecord, 0, len(lines))
	for _, line := range lines {
		plaintext, err := a.cipher.Open(line)
		if err != nil {
			a.logger.Warn("skipping unreadable lead record", "error", err)
			continue
		}
		var record LeadRecord
		if err := json.Unmarshal(plaintext, &record); err != nil {
			a.logger.Warn("skipping malformed lead record", "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
