package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wolfman30/practice-voice-ai/internal/directory"
	"github.com/wolfman30/practice-voice-ai/internal/nlu"
	"github.com/wolfman30/practice-voice-ai/internal/speech"
	"github.com/wolfman30/practice-voice-ai/internal/timeparse"
)

// ClientMatchesData lists candidate clients when a lookup is ambiguous.
type ClientMatchesData struct {
	Matches []directory.Client `json:"matches"`
}

// ClientInfoData carries a resolved client and their next confirmed visit.
type ClientInfoData struct {
	Client          directory.Client       `json:"client"`
	NextAppointment *directory.Appointment `json:"nextAppointment,omitempty"`
}

// BookingData carries the appointment created by a schedule workflow.
type BookingData struct {
	Appointment directory.Appointment `json:"appointment"`
}

// DayScheduleData carries the appointments backing a spoken day listing.
type DayScheduleData struct {
	Date         string                  `json:"date"`
	Appointments []directory.Appointment `json:"appointments"`
}

// scheduleAppointment books a new appointment. The caller must have given a
// client name and a resolvable date/time; everything else falls back to
// configured defaults and then to the first available option.
func (e *Engine) scheduleAppointment(ctx context.Context, intent nlu.Intent) VoiceResponse {
	clientName, ok := intent.Param(nlu.SlotClientName)
	if !ok {
		return e.clarify("I'd be happy to schedule that. Who is the appointment for? Please give me the client's full name.")
	}
	phrase, ok := intent.Param(nlu.SlotDateTime)
	if !ok {
		return e.clarify(fmt.Sprintf("When would you like the appointment for %s? You can say something like tomorrow at 3 PM.", clientName))
	}

	clients, err := e.dir.SearchClients(ctx, clientName)
	if err != nil {
		return e.collaboratorFailure("search_clients", err)
	}
	switch {
	case len(clients) == 0:
		return e.clarify(fmt.Sprintf("I couldn't find a client named %s in our system. Would you like me to create a new client record for them?", clientName))
	case len(clients) > 1:
		return e.ambiguousClients(clientName, clients)
	}
	client := clients[0]

	now := e.now()
	when, ok := timeparse.Resolve(phrase, now)
	if !ok {
		return e.clarify("I didn't quite catch the date and time. Could you say it like tomorrow at 3 PM, or give me a date such as March 5th at 10 AM?")
	}
	if !e.cfg.BusinessHours.Contains(when) {
		return e.clarify(fmt.Sprintf("That time is outside our business hours. We book appointments from %s. What other time would work?", e.cfg.BusinessHours.String()))
	}

	settings, err := e.dir.GetSchedulingSettings(ctx)
	if err != nil {
		return e.collaboratorFailure("get_scheduling_settings", err)
	}

	explicitPractitioner, _ := intent.Param(nlu.SlotPractitionerName)
	practitioner, ok := e.resolvePractitioner(settings.Practitioners, explicitPractitioner)
	if !ok {
		return e.transferEligible("I couldn't find an available practitioner for that appointment.")
	}

	explicitService, _ := intent.Param(nlu.SlotServiceName)
	service, ok := e.resolveService(settings.Services, explicitService)
	if !ok {
		return e.transferEligible("I couldn't find that service on our schedule.")
	}

	req := directory.CreateAppointmentRequest{
		ClientID:                    client.ID,
		ClientName:                  client.Name,
		ClientEmail:                 client.Email,
		PractitionerID:              practitioner.ID,
		ServiceID:                   service.ID,
		LocationID:                  e.resolveLocationID(settings.Locations),
		UTCDateTime:                 when.UTC().UnixMilli(),
		Status:                      directory.StatusAwaitingConfirmation,
		SendClientEmailNotification: true,
		ReminderType:                directory.ReminderEmail,
	}
	appt, err := e.dir.CreateAppointment(ctx, req)
	if err != nil {
		return e.collaboratorFailure("create_appointment", err)
	}
	e.notifyBooked(ctx, appt)

	resp := VoiceResponse{
		Message: fmt.Sprintf("You're all set. I've booked %s for a %s with %s on %s. They'll get an email to confirm.",
			client.Name, service.Name, practitioner.Name, speech.DateForSpeech(when)),
		Success: true,
	}
	if appt != nil {
		resp.Data = BookingData{Appointment: *appt}
	}
	return resp
}

// cancelAppointment cancels by appointment ID only. A name or date alone is
// never enough to pick an appointment to cancel.
func (e *Engine) cancelAppointment(ctx context.Context, intent nlu.Intent) VoiceResponse {
	if id, ok := intent.Param(nlu.SlotAppointmentID); ok {
		if err := e.dir.CancelAppointment(ctx, id, "Cancelled by phone"); err != nil {
			return e.collaboratorFailure("cancel_appointment", err)
		}
		e.notifyCancelled(ctx, id, "Cancelled by phone")
		return VoiceResponse{
			Message: fmt.Sprintf("Okay, I've cancelled appointment %s. The client will be notified by email.", id),
			Success: true,
		}
	}

	_, hasName := intent.Param(nlu.SlotClientName)
	_, hasDate := intent.Param(nlu.SlotDateTime)
	if !hasName && !hasDate {
		return e.clarify("I can help with that. Could you give me the appointment ID, or the client's name and appointment time?")
	}

	// Partial identification: never guess which appointment to cancel.
	return e.transferEligible("To make sure I cancel the right appointment, I need the appointment ID. You can find it in the confirmation email.")
}

// findClient looks up a client by email first, then by name, and enriches a
// single match with their next confirmed appointment in the next 30 days.
func (e *Engine) findClient(ctx context.Context, intent nlu.Intent) VoiceResponse {
	if email, ok := intent.Param(nlu.SlotClientEmail); ok {
		client, err := e.dir.GetClientByEmail(ctx, email)
		if err != nil {
			return e.collaboratorFailure("get_client_by_email", err)
		}
		if client == nil {
			return e.clarify(fmt.Sprintf("I couldn't find a client with the email %s. Would you like me to search by name instead?", email))
		}
		return e.describeClient(ctx, *client)
	}

	name, ok := intent.Param(nlu.SlotClientName)
	if !ok {
		return e.clarify("Who would you like me to look up? A full name or an email address works.")
	}

	clients, err := e.dir.SearchClients(ctx, name)
	if err != nil {
		return e.collaboratorFailure("search_clients", err)
	}
	switch {
	case len(clients) == 0:
		return e.clarify(fmt.Sprintf("I couldn't find anyone named %s in our system. Would you like me to create a new client record?", name))
	case len(clients) > 1:
		return e.ambiguousClients(name, clients)
	}
	return e.describeClient(ctx, clients[0])
}

// describeClient builds the spoken profile for a single resolved client.
func (e *Engine) describeClient(ctx context.Context, client directory.Client) VoiceResponse {
	next, err := e.nextConfirmedAppointment(ctx, client)
	if err != nil {
		return e.collaboratorFailure("list_appointments", err)
	}

	parts := []string{fmt.Sprintf("I found %s.", client.Name)}
	if client.Email != "" {
		parts = append(parts, fmt.Sprintf("Their email is %s.", client.Email))
	}
	if client.Phone != "" {
		parts = append(parts, fmt.Sprintf("Their phone number is %s.", speech.PhoneForSpeech(client.Phone)))
	}
	if next != nil {
		local := next.StartTime().In(e.now().Location())
		parts = append(parts, fmt.Sprintf("Their next appointment is a %s on %s.", next.ServiceName, speech.DateForSpeech(local)))
	} else {
		parts = append(parts, "They have no upcoming appointments.")
	}

	return VoiceResponse{
		Message: strings.Join(parts, " "),
		Success: true,
		Data:    ClientInfoData{Client: client, NextAppointment: next},
	}
}

// nextConfirmedAppointment returns the client's soonest confirmed appointment
// within the next 30 days, or nil when there is none.
func (e *Engine) nextConfirmedAppointment(ctx context.Context, client directory.Client) (*directory.Appointment, error) {
	now := e.now()
	dateRange := directory.DateRange{
		StartDate: now.Format("2006-01-02"),
		EndDate:   now.AddDate(0, 0, 30).Format("2006-01-02"),
	}
	appts, err := e.dir.ListAppointments(ctx, dateRange, directory.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	var next *directory.Appointment
	for i := range appts {
		appt := appts[i]
		if appt.ClientID != client.ID {
			continue
		}
		if appt.StartTime().Before(now) {
			continue
		}
		if next == nil || appt.StartDate < next.StartDate {
			next = &appts[i]
		}
	}
	return next, nil
}

// checkAppointments lists the confirmed appointments for a single day,
// defaulting to today, capped at five entries for spoken brevity.
func (e *Engine) checkAppointments(ctx context.Context, intent nlu.Intent) VoiceResponse {
	phrase, ok := intent.Param(nlu.SlotDate)
	if !ok {
		phrase = "today"
	}

	now := e.now()
	day, ok := timeparse.ResolveDay(phrase, now)
	if !ok {
		return e.clarify("Which day should I check? You can say today, tomorrow, or a date like March 5th.")
	}

	dayStr := day.Format("2006-01-02")
	appts, err := e.dir.ListAppointments(ctx, directory.DateRange{StartDate: dayStr, EndDate: dayStr}, directory.StatusConfirmed)
	if err != nil {
		return e.collaboratorFailure("list_appointments", err)
	}

	spoken := speech.DayForSpeech(day)
	if len(appts) == 0 {
		return VoiceResponse{
			Message: fmt.Sprintf("There are no confirmed appointments for %s.", spoken),
			Success: true,
			Data:    DayScheduleData{Date: dayStr, Appointments: []directory.Appointment{}},
		}
	}

	sort.Slice(appts, func(i, j int) bool { return appts[i].StartDate < appts[j].StartDate })

	entries := make([]string, 0, len(appts))
	for _, appt := range appts {
		local := appt.StartTime().In(now.Location())
		entries = append(entries, fmt.Sprintf("%s - %s with %s", speech.TimeForSpeech(local), appt.ClientName, appt.PractitionerName))
	}

	return VoiceResponse{
		Message: fmt.Sprintf("You have %d confirmed appointments for %s: %s.",
			len(appts), spoken, speech.JoinForSpeech(entries, 5)),
		Success: true,
		Data:    DayScheduleData{Date: dayStr, Appointments: appts},
	}
}

// sendIntakeForm emails an intake questionnaire to the given address.
func (e *Engine) sendIntakeForm(ctx context.Context, intent nlu.Intent) VoiceResponse {
	email, ok := intent.Param(nlu.SlotClientEmail)
	if !ok {
		return e.clarify("What's the client's email address? I need it to send the intake form.")
	}

	templates, err := e.dir.ListQuestionnaireTemplates(ctx)
	if err != nil {
		return e.collaboratorFailure("list_questionnaire_templates", err)
	}
	if len(templates) == 0 {
		return e.transferEligible("I don't see any intake forms set up for sending.")
	}
	formName, _ := intent.Param(nlu.SlotServiceName)
	template := resolveTemplate(templates, formName)

	practitioners, err := e.dir.ListQuestionnairePractitioners(ctx)
	if err != nil {
		return e.collaboratorFailure("list_questionnaire_practitioners", err)
	}
	sender, ok := e.resolveQuestionnaireSender(practitioners)
	if !ok {
		return e.transferEligible("I couldn't find a practitioner to send the form from.")
	}

	clientName, _ := intent.Param(nlu.SlotClientName)
	req := directory.SendQuestionnaireRequest{
		QuestionnaireID: template.ID,
		ClientName:      clientName,
		ClientEmail:     email,
		PractitionerID:  sender.ID,
	}
	if _, err := e.dir.SendQuestionnaire(ctx, req); err != nil {
		return e.collaboratorFailure("send_questionnaire", err)
	}

	msg := fmt.Sprintf("Done. I've sent the %s to %s.", template.Name, email)
	if clientName != "" {
		msg = fmt.Sprintf("Done. I've sent the %s to %s for %s.", template.Name, email, clientName)
	}
	return VoiceResponse{Message: msg, Success: true}
}

// ambiguousClients asks the caller to pick between candidate matches rather
// than guessing. At most three names are spoken; the full match list rides
// along in Data.
func (e *Engine) ambiguousClients(query string, clients []directory.Client) VoiceResponse {
	names := make([]string, 0, len(clients))
	for _, c := range clients {
		names = append(names, c.Name)
	}
	return VoiceResponse{
		Message: fmt.Sprintf("I found %d clients matching %s: %s. Which one did you mean?",
			len(clients), query, speech.JoinForSpeech(names, 3)),
		Success: false,
		Data:    ClientMatchesData{Matches: clients},
	}
}

// resolvePractitioner picks a practitioner by explicit name, then the
// configured default email, then the first available.
func (e *Engine) resolvePractitioner(practitioners []directory.Practitioner, explicitName string) (directory.Practitioner, bool) {
	if len(practitioners) == 0 {
		return directory.Practitioner{}, false
	}
	if explicitName != "" {
		lower := strings.ToLower(explicitName)
		for _, p := range practitioners {
			if strings.Contains(strings.ToLower(p.Name), lower) {
				return p, true
			}
		}
	}
	if e.cfg.DefaultPractitionerEmail != "" {
		for _, p := range practitioners {
			if strings.EqualFold(p.Email, e.cfg.DefaultPractitionerEmail) {
				return p, true
			}
		}
	}
	return practitioners[0], true
}

// resolveService picks a service by case-insensitive substring, then the
// configured default ID, then the first available. First match wins on the
// substring pass, matching the order the directory reports services in.
func (e *Engine) resolveService(services []directory.Service, explicitName string) (directory.Service, bool) {
	if len(services) == 0 {
		return directory.Service{}, false
	}
	if explicitName != "" {
		lower := strings.ToLower(explicitName)
		for _, s := range services {
			if strings.Contains(strings.ToLower(s.Name), lower) {
				return s, true
			}
		}
	}
	if e.cfg.DefaultServiceID != "" {
		for _, s := range services {
			if s.ID == e.cfg.DefaultServiceID {
				return s, true
			}
		}
	}
	return services[0], true
}

// resolveLocationID returns the configured default location, else the first
// listed, else empty for directories without locations.
func (e *Engine) resolveLocationID(locations []directory.Location) string {
	if e.cfg.DefaultLocationID != "" {
		return e.cfg.DefaultLocationID
	}
	if len(locations) > 0 {
		return locations[0].ID
	}
	return ""
}

// resolveQuestionnaireSender picks the configured default practitioner by
// email, else the first in the list.
func (e *Engine) resolveQuestionnaireSender(practitioners []directory.QuestionnairePractitioner) (directory.QuestionnairePractitioner, bool) {
	if len(practitioners) == 0 {
		return directory.QuestionnairePractitioner{}, false
	}
	if e.cfg.DefaultPractitionerEmail != "" {
		for _, p := range practitioners {
			if strings.EqualFold(p.Email, e.cfg.DefaultPractitionerEmail) {
				return p, true
			}
		}
	}
	return practitioners[0], true
}

// resolveTemplate picks a questionnaire template by case-insensitive
// substring on the spoken form name, else the first available.
func resolveTemplate(templates []directory.QuestionnaireTemplate, formName string) directory.QuestionnaireTemplate {
	if formName != "" {
		lower := strings.ToLower(formName)
		for _, t := range templates {
			if strings.Contains(strings.ToLower(t.Name), lower) {
				return t
			}
		}
	}
	return templates[0]
}
