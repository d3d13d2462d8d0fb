package intakeq

import (
	"strconv"

	"github.com/wolfman30/practice-voice-ai/internal/directory"
)

// Wire DTOs for the IntakeQ REST API. Field names follow IntakeQ's
// PascalCase JSON exactly; everything is converted to directory types at
// the boundary so nothing IntakeQ-shaped leaks upward.

type apiClient struct {
	ClientID    int64  `json:"ClientId"`
	Name        string `json:"Name"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Email       string `json:"Email"`
	Phone       string `json:"Phone"`
	DateOfBirth int64  `json:"DateOfBirth"`
}

func (a apiClient) toDirectory() directory.Client {
	return directory.Client{
		ID:          strconv.FormatInt(a.ClientID, 10),
		Name:        a.Name,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		Phone:       a.Phone,
		DateOfBirth: a.DateOfBirth,
	}
}

type apiAppointment struct {
	ID               string `json:"Id"`
	ClientID         int64  `json:"ClientId"`
	ClientName       string `json:"ClientName"`
	ClientEmail      string `json:"ClientEmail"`
	PractitionerID   string `json:"PractitionerId"`
	PractitionerName string `json:"PractitionerName"`
	ServiceID        string `json:"ServiceId"`
	ServiceName      string `json:"ServiceName"`
	LocationID       string `json:"LocationId"`
	Status           string `json:"Status"`
	StartDate        int64  `json:"StartDate"`
	EndDate          int64  `json:"EndDate"`
	StartDateIso     string `json:"StartDateIso"`
	Duration         int    `json:"Duration"`
}

func (a apiAppointment) toDirectory() directory.Appointment {
	return directory.Appointment{
		ID:               a.ID,
		ClientID:         strconv.FormatInt(a.ClientID, 10),
		ClientName:       a.ClientName,
		ClientEmail:      a.ClientEmail,
		PractitionerID:   a.PractitionerID,
		PractitionerName: a.PractitionerName,
		ServiceID:        a.ServiceID,
		ServiceName:      a.ServiceName,
		LocationID:       a.LocationID,
		Status:           a.Status,
		StartDate:        a.StartDate,
		EndDate:          a.EndDate,
		StartDateISO:     a.StartDateIso,
		Duration:         a.Duration,
	}
}

type apiPractitioner struct {
	ID           string `json:"Id"`
	CompleteName string `json:"CompleteName"`
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	Email        string `json:"Email"`
}

func (a apiPractitioner) displayName() string {
	if a.CompleteName != "" {
		return a.CompleteName
	}
	return a.FirstName + " " + a.LastName
}

type apiService struct {
	ID       string  `json:"Id"`
	Name     string  `json:"Name"`
	Duration int     `json:"Duration"`
	Price    float64 `json:"Price"`
}

type apiLocation struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type apiSettings struct {
	Practitioners []apiPractitioner `json:"Practitioners"`
	Services      []apiService      `json:"Services"`
	Locations     []apiLocation     `json:"Locations"`
}

func (s apiSettings) toDirectory() *directory.SchedulingSettings {
	out := &directory.SchedulingSettings{}
	for _, p := range s.Practitioners {
		out.Practitioners = append(out.Practitioners, directory.Practitioner{
			ID:    p.ID,
			Name:  p.displayName(),
			Email: p.Email,
		})
	}
	for _, svc := range s.Services {
		out.Services = append(out.Services, directory.Service{
			ID:       svc.ID,
			Name:     svc.Name,
			Duration: svc.Duration,
			Price:    svc.Price,
		})
	}
	for _, loc := range s.Locations {
		out.Locations = append(out.Locations, directory.Location{ID: loc.ID, Name: loc.Name})
	}
	return out
}

type apiQuestionnaire struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type apiQuestionnaireSend struct {
	ID          string `json:"Id"`
	ClientEmail string `json:"ClientEmail"`
	SentAt      int64  `json:"DateSent"`
}

// createAppointmentPayload is the POST /appointments body. IntakeQ wants
// the client as a numeric ID and the start as Unix milliseconds UTC.
type createAppointmentPayload struct {
	ClientID                    int64  `json:"ClientId"`
	PractitionerID              string `json:"PractitionerId"`
	ServiceID                   string `json:"ServiceId"`
	LocationID                  string `json:"LocationId,omitempty"`
	UtcDateTime                 int64  `json:"UtcDateTime"`
	Status                      string `json:"Status,omitempty"`
	SendClientEmailNotification bool   `json:"SendClientEmailNotification"`
	ReminderType                string `json:"ReminderType,omitempty"`
}

type cancelAppointmentPayload struct {
	AppointmentID string `json:"AppointmentId"`
	Reason        string `json:"Reason,omitempty"`
}

type sendQuestionnairePayload struct {
	QuestionnaireID string `json:"QuestionnaireId"`
	ClientID        int64  `json:"ClientId,omitempty"`
	ClientName      string `json:"ClientName,omitempty"`
	ClientEmail     string `json:"ClientEmail"`
	PractitionerID  string `json:"PractitionerId"`
}
