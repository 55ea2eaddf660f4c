package ui

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/model"
)

func patientLine(a model.Appointment) string {
	return fmt.Sprintf("Dr: %s %s %s Status: %s", a.Doctor, a.Date, a.Time, a.Status)
}

func doctorLine(a model.Appointment) string {
	return fmt.Sprintf("Patient: %s %s %s Status: %s", a.Patient, a.Date, a.Time, a.Status)
}

// appointmentList is a widget.List over a slice that tracks the selected row.
type appointmentList struct {
	items    []model.Appointment
	selected int
	list     *widget.List
}

func newAppointmentList(render func(model.Appointment) string) *appointmentList {
	l := &appointmentList{selected: -1}
	l.list = widget.NewList(
		func() int { return len(l.items) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(render(l.items[id]))
		},
	)
	l.list.OnSelected = func(id widget.ListItemID) { l.selected = id }
	l.list.OnUnselected = func(widget.ListItemID) { l.selected = -1 }
	return l
}

func (l *appointmentList) set(items []model.Appointment) {
	l.items = items
	l.selected = -1
	l.list.UnselectAll()
	l.list.Refresh()
}

type patientView struct {
	a       *App
	sess    model.Session
	window  fyne.Window
	date    *widget.Entry
	doctor  *widget.Select
	times   *widget.Select
	appts   *appointmentList
	message *widget.Label
	// label shown in the doctor select -> username
	doctors map[string]string
}

func newPatientView(a *App, sess model.Session) *patientView {
	v := &patientView{
		a:       a,
		sess:    sess,
		window:  a.app.NewWindow("Patient: " + sess.Username),
		doctors: map[string]string{},
		message: widget.NewLabel(""),
	}

	v.date = widget.NewEntry()
	v.date.SetPlaceHolder(model.DateLayout)
	v.date.SetText(a.now().Format(model.DateLayout))
	v.date.OnChanged = func(string) { v.refreshSlots() }

	v.times = widget.NewSelect(nil, nil)
	v.doctor = widget.NewSelect(nil, func(string) { v.refreshSlots() })
	v.loadDoctors()
	if len(v.doctor.Options) > 0 {
		v.doctor.SetSelectedIndex(0)
	}

	v.appts = newAppointmentList(patientLine)

	prev := widget.NewButton("<", func() { v.shiftDate(-1) })
	next := widget.NewButton(">", func() { v.shiftDate(1) })
	book := widget.NewButton("Book", v.book)
	cancel := widget.NewButton("Cancel Selected", v.cancel)
	logout := widget.NewButton("Logout", v.window.Close)

	top := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Date", container.NewBorder(nil, nil, prev, next, v.date)),
			widget.NewFormItem("Doctor", v.doctor),
			widget.NewFormItem("Time", v.times),
		),
		book,
		widget.NewLabel("My appointments"),
	)
	bottom := container.NewVBox(container.NewHBox(cancel, logout), v.message)
	v.window.SetContent(container.NewBorder(top, bottom, nil, nil, v.appts.list))
	v.window.Resize(fyne.NewSize(480, 560))
	v.window.SetOnClosed(a.showLogin)

	v.refreshSlots()
	v.refreshAppointments()
	return v
}

func (v *patientView) loadDoctors() {
	docs, err := v.a.svc.Doctors(v.a.ctx())
	if err != nil {
		v.message.SetText(v.a.storageFailed(err, "doctors"))
		docs = []model.UserAccount{booking.FallbackDoctor}
	}
	labels := make([]string, 0, len(docs))
	for _, d := range docs {
		l := d.Label()
		v.doctors[l] = d.Username
		labels = append(labels, l)
	}
	v.doctor.Options = labels
	v.doctor.Refresh()
}

func (v *patientView) selectedDoctor() string {
	return v.doctors[v.doctor.Selected]
}

func (v *patientView) shiftDate(days int) {
	d, err := time.Parse(model.DateLayout, v.date.Text)
	if err != nil {
		d = v.a.now()
	}
	v.date.SetText(d.AddDate(0, 0, days).Format(model.DateLayout))
}

func (v *patientView) refreshSlots() {
	open, err := v.a.svc.AvailableSlots(v.a.ctx(), v.selectedDoctor(), v.date.Text)
	if err != nil && !errors.Is(err, booking.ErrInvalidDate) {
		v.message.SetText(v.a.storageFailed(err, "slots"))
	}
	v.times.Options = open
	if len(open) > 0 {
		v.times.SetSelectedIndex(0)
	} else {
		v.times.ClearSelected()
	}
	v.times.Refresh()
}

func (v *patientView) refreshAppointments() {
	own, err := v.a.svc.PatientAppointments(v.a.ctx(), v.sess)
	if err != nil {
		v.message.SetText(v.a.storageFailed(err, "appointments"))
		return
	}
	v.appts.set(own)
}

func (v *patientView) book() {
	doctor, tm := v.selectedDoctor(), v.times.Selected
	if doctor == "" || tm == "" {
		v.message.SetText(msgSelectSlot)
		return
	}
	_, err := v.a.svc.Book(v.a.ctx(), v.sess, doctor, v.date.Text, tm)
	switch {
	case err == nil:
		v.message.SetText(msgBooked)
	case errors.Is(err, booking.ErrSlotTaken):
		v.message.SetText(msgSlotTaken)
	case isInput(err):
		v.message.SetText(msgSelectSlot)
		return
	default:
		v.message.SetText(v.a.storageFailed(err, "book"))
		return
	}
	v.refreshSlots()
	v.refreshAppointments()
}

func (v *patientView) cancel() {
	if v.appts.selected < 0 {
		v.message.SetText(msgSelectCancel)
		return
	}
	_, err := v.a.svc.CancelAt(v.a.ctx(), v.sess, v.appts.selected)
	switch {
	case err == nil:
		v.message.SetText(msgCancelled)
	case errors.Is(err, booking.ErrInvalidSelection):
		v.message.SetText(msgBadSelection)
	default:
		v.message.SetText(v.a.storageFailed(err, "cancel"))
		return
	}
	v.refreshSlots()
	v.refreshAppointments()
}

type doctorView struct {
	a       *App
	sess    model.Session
	window  fyne.Window
	appts   *appointmentList
	message *widget.Label
}

func newDoctorView(a *App, sess model.Session) *doctorView {
	v := &doctorView{
		a:       a,
		sess:    sess,
		window:  a.app.NewWindow("Doctor: " + sess.Username),
		appts:   newAppointmentList(doctorLine),
		message: widget.NewLabel(""),
	}

	refresh := widget.NewButton("Refresh", v.refresh)
	logout := widget.NewButton("Logout", v.window.Close)
	v.window.SetContent(container.NewBorder(
		widget.NewLabel("My schedule"),
		container.NewVBox(container.NewHBox(refresh, logout), v.message),
		nil, nil,
		v.appts.list,
	))
	v.window.Resize(fyne.NewSize(480, 480))
	v.window.SetOnClosed(a.showLogin)

	v.refresh()
	return v
}

func (v *doctorView) refresh() {
	sched, err := v.a.svc.DoctorSchedule(v.a.ctx(), v.sess, "")
	if err != nil {
		v.message.SetText(v.a.storageFailed(err, "schedule"))
		return
	}
	v.appts.set(sched)
}
