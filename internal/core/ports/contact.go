package ports

import (
	"context"

	"github.com/nexiot/site-backend/internal/core/domain"
)

// ContactInput is the public contact form payload after decoding.
type ContactInput struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,contact_email,max=320"`
	Phone   string `validate:"max=50"`
	Subject string `validate:"required,max=300"`
	Message string `validate:"required,max=10000"`
}

// SubmitResult keeps the durable write and the advisory email apart.
type SubmitResult struct {
	ID        int64
	Persisted bool
	Notified  bool
}

// ContactService runs the contact submission pipeline.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (SubmitResult, error)
	List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactSubmission, error)
}

// ContactRepository persists contact submissions.
type ContactRepository interface {
	// Insert stores one submission and fills in ID and CreatedAt.
	Insert(ctx context.Context, s *domain.ContactSubmission) error
	List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactSubmission, error)
}

// Notifier delivers staff notifications for new submissions.
type Notifier interface {
	// Configured reports whether host and recipient are provisioned.
	Configured() bool
	// Verify checks that the mail transport accepts connections.
	Verify(ctx context.Context) error
	NotifyContact(ctx context.Context, s domain.ContactSubmission) error
}
