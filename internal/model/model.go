package model

import "fmt"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

const (
	StatusBooked = "booked"

	DefaultSpecialization = "General"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type UserAccount struct {
	Role           Role   `json:"role"`
	Username       string `json:"username"`
	Password       string `json:"-"`
	Specialization string `json:"specialization,omitempty"`
}

// Label is how a doctor is shown in pickers: "dr_a (Cardiology)".
func (u UserAccount) Label() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.Specialization)
}

type Appointment struct {
	ID      string `json:"id"`
	Patient string `json:"patient"`
	Doctor  string `json:"doctor"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

// SameRecord compares the persisted fields only, ignoring ID.
func (a Appointment) SameRecord(b Appointment) bool {
	return a.Patient == b.Patient &&
		a.Doctor == b.Doctor &&
		a.Date == b.Date &&
		a.Time == b.Time &&
		a.Status == b.Status
}

// Session identifies who is using a view or calling the API.
type Session struct {
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

func (s Session) IsPatient() bool { return s.Role == RolePatient }
func (s Session) IsDoctor() bool  { return s.Role == RoleDoctor }
