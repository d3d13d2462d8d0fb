package directory

import "time"

// Appointment status values used by IntakeQ-compatible systems.
const (
	StatusConfirmed            = "Confirmed"
	StatusAwaitingConfirmation = "AwaitingConfirmation"
	StatusCanceled             = "Canceled"
)

// Reminder types accepted on appointment creation.
const (
	ReminderEmail = "Email"
	ReminderSMS   = "Sms"
)

// Client represents a client record in the practice directory
type Client struct {
	ID          string // Directory-specific client identifier
	Name        string // Full display name
	FirstName   string // Client first name
	LastName    string // Client last name
	Email       string // Client email
	Phone       string // Client phone
	DateOfBirth int64  // Unix milliseconds, 0 when unknown
}

// Appointment represents an appointment in the practice directory
type Appointment struct {
	ID               string // Directory-specific appointment identifier
	ClientID         string // Client identifier
	ClientName       string // Human-readable client name
	ClientEmail      string // Client email at booking time
	PractitionerID   string // Practitioner identifier
	PractitionerName string // Human-readable practitioner name
	ServiceID        string // Service identifier
	ServiceName      string // Human-readable service name
	LocationID       string // Location identifier
	Status           string // One of the Status* constants
	StartDate        int64  // Start, Unix milliseconds UTC
	EndDate          int64  // End, Unix milliseconds UTC
	StartDateISO     string // Start in ISO-8601, as reported by the directory
	Duration         int    // Duration in minutes
}

// StartTime returns the appointment start as a time.Time in UTC.
func (a Appointment) StartTime() time.Time {
	return time.UnixMilli(a.StartDate).UTC()
}

// Practitioner represents a bookable practitioner
type Practitioner struct {
	ID    string // Directory-specific practitioner identifier
	Name  string // Complete display name
	Email string // Practitioner email
}

// Service represents a bookable service
type Service struct {
	ID       string  // Directory-specific service identifier
	Name     string  // Human-readable service name
	Duration int     // Default duration in minutes
	Price    float64 // Listed price
}

// Location represents a practice location
type Location struct {
	ID   string // Directory-specific location identifier
	Name string // Human-readable location name
}

// SchedulingSettings bundles the practice's bookable resources
type SchedulingSettings struct {
	Practitioners []Practitioner
	Services      []Service
	Locations     []Location
}

// QuestionnaireTemplate represents an intake questionnaire template
type QuestionnaireTemplate struct {
	ID   string // Directory-specific template identifier
	Name string // Human-readable template name
}

// QuestionnairePractitioner represents a practitioner able to send questionnaires
type QuestionnairePractitioner struct {
	ID    string // Directory-specific practitioner identifier
	Name  string // Complete display name
	Email string // Practitioner email
}

// DateRange bounds an appointment listing query
type DateRange struct {
	StartDate string // Inclusive, "YYYY-MM-dd"
	EndDate   string // Inclusive, "YYYY-MM-dd"
}

// CreateAppointmentRequest represents a request to book an appointment
type CreateAppointmentRequest struct {
	ClientID                    string // Existing client identifier
	ClientName                  string // Client name, for directories that accept inline client data
	ClientEmail                 string // Client email
	PractitionerID              string // Practitioner identifier
	ServiceID                   string // Service identifier
	LocationID                  string // Location identifier, optional
	UTCDateTime                 int64  // Start, Unix milliseconds UTC
	Status                      string // Initial status, one of the Status* constants
	SendClientEmailNotification bool   // Whether the directory emails the client
	ReminderType                string // One of the Reminder* constants
}

// SendQuestionnaireRequest represents a request to send an intake questionnaire
type SendQuestionnaireRequest struct {
	QuestionnaireID string // Template identifier
	ClientID        string // Existing client identifier, optional
	ClientName      string // Recipient display name
	ClientEmail     string // Recipient email
	PractitionerID  string // Sending practitioner identifier
}

// QuestionnaireSend is the directory's record of a sent questionnaire
type QuestionnaireSend struct {
	ID          string // Directory-specific send identifier
	ClientEmail string // Recipient email
	SentAt      int64  // Unix milliseconds, 0 when the directory omits it
}
