package directory

import "context"

// Directory defines the practice management operations the voice engine
// depends on. Implementations talk to an external client/appointment system;
// the engine itself never knows which one.
type Directory interface {
	// SearchClients finds client records matching a free-text query (name,
	// partial name, phone, or email depending on the backing system).
	SearchClients(ctx context.Context, query string) ([]Client, error)

	// GetClientByEmail retrieves the client with exactly this email address.
	// Returns (nil, nil) when no client has the address.
	GetClientByEmail(ctx context.Context, email string) (*Client, error)

	// ListAppointments retrieves appointments within a date range, optionally
	// filtered to a single status. An empty status means all statuses.
	ListAppointments(ctx context.Context, dateRange DateRange, status string) ([]Appointment, error)

	// GetAppointment retrieves an appointment by ID. Returns (nil, nil) when
	// the ID is unknown.
	GetAppointment(ctx context.Context, appointmentID string) (*Appointment, error)

	// CreateAppointment books a new appointment.
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)

	// CancelAppointment cancels an existing appointment. Reason may be empty.
	CancelAppointment(ctx context.Context, appointmentID, reason string) error

	// GetSchedulingSettings retrieves the practice's practitioners, services,
	// and locations.
	GetSchedulingSettings(ctx context.Context) (*SchedulingSettings, error)

	// ListQuestionnaireTemplates retrieves the intake questionnaire templates
	// available for sending.
	ListQuestionnaireTemplates(ctx context.Context) ([]QuestionnaireTemplate, error)

	// ListQuestionnairePractitioners retrieves practitioners able to send
	// questionnaires.
	ListQuestionnairePractitioners(ctx context.Context) ([]QuestionnairePractitioner, error)

	// SendQuestionnaire sends an intake questionnaire to a client.
	SendQuestionnaire(ctx context.Context, req SendQuestionnaireRequest) (*QuestionnaireSend, error)
}
