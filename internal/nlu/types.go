package nlu

// Action is the canonical operation category inferred from a transcript.
type Action string

const (
	ActionScheduleAppointment   Action = "SCHEDULE_APPOINTMENT"
	ActionCancelAppointment     Action = "CANCEL_APPOINTMENT"
	ActionRescheduleAppointment Action = "RESCHEDULE_APPOINTMENT"
	ActionFindClient            Action = "FIND_CLIENT"
	ActionCheckAppointments     Action = "CHECK_APPOINTMENTS"
	ActionSendIntakeForm        Action = "SEND_INTAKE_FORM"
	ActionCheckIntakeStatus     Action = "CHECK_INTAKE_STATUS"
	ActionGetClientInfo         Action = "GET_CLIENT_INFO"
	ActionCheckAvailability     Action = "CHECK_AVAILABILITY"
	ActionUnknown               Action = "UNKNOWN"
)

// Slot names used as Intent.Params keys. A missing key means the slot was
// not present in the transcript; extractors never invent values.
const (
	SlotClientName       = "clientName"
	SlotClientEmail      = "clientEmail"
	SlotAppointmentID    = "appointmentId"
	SlotDateTime         = "dateTime"
	SlotDate             = "date"
	SlotServiceName      = "serviceName"
	SlotPractitionerName = "practitionerName"
)

// Intent is the structured reading of one transcript: exactly one action,
// the slots found for it, and a confidence in [0, 1].
type Intent struct {
	Action     Action
	Params     map[string]string
	Confidence float64
}

// Param returns a slot value and whether it was extracted.
func (i Intent) Param(name string) (string, bool) {
	v, ok := i.Params[name]
	return v, ok
}
