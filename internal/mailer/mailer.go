// Package mailer dispatches account mail. The default implementation mimics
// an e-mail sender by appending messages to a local outbox file, which is
// enough for a single-author blog running on one host.
package mailer

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Mailer sends a message to a single recipient. Dispatch is fire-and-forget
// from the caller's perspective: workflows report success once the message
// is handed over.
type Mailer interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}

// FileMailer appends messages to an outbox file.
type FileMailer struct {
	path string
	mu   sync.Mutex
}

var _ Mailer = (*FileMailer)(nil)

// NewFileMailer creates a mailer writing to the given outbox path.
func NewFileMailer(path string) *FileMailer {
	return &FileMailer{path: path}
}

// Send appends a To/Subject/Message record to the outbox file.
func (m *FileMailer) Send(_ context.Context, to, subject, bodyHTML string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}
	defer f.Close()

	record := fmt.Sprintf("To: %s\nSubject: %s\nMessage: %s\n\n", to, subject, bodyHTML)
	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	return nil
}
