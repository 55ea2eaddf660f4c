package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/model"
)

type loginView struct {
	a        *App
	window   fyne.Window
	role     *widget.Select
	username *widget.Entry
	password *widget.Entry
	message  *widget.Label
	loginBtn *widget.Button
	regBtn   *widget.Button
}

func newLoginView(a *App) *loginView {
	v := &loginView{a: a, window: a.app.NewWindow("Clinic Login")}

	v.role = widget.NewSelect(roles, nil)
	v.role.SetSelected(string(model.RolePatient))
	v.username = widget.NewEntry()
	v.password = widget.NewPasswordEntry()
	v.message = widget.NewLabel("")
	v.loginBtn = widget.NewButton("Login", v.submit)
	v.regBtn = widget.NewButton("Register", func() {
		newRegisterView(a, v).window.Show()
	})

	form := widget.NewForm(
		widget.NewFormItem("Role", v.role),
		widget.NewFormItem("Username", v.username),
		widget.NewFormItem("Password", v.password),
	)
	v.window.SetContent(container.NewVBox(
		form,
		container.NewHBox(v.loginBtn, v.regBtn),
		v.message,
	))
	v.window.Resize(fyne.NewSize(360, 240))
	v.window.SetMaster()
	return v
}

func (v *loginView) submit() {
	sess, err := v.a.svc.Authenticate(v.a.ctx(), model.Role(v.role.Selected), v.username.Text, v.password.Text)
	switch {
	case err == nil:
		v.message.SetText("")
		v.password.SetText("")
		v.a.openDashboard(sess)
	case errors.Is(err, booking.ErrFieldsRequired):
		v.message.SetText(msgFieldsRequired)
	case errors.Is(err, booking.ErrNoAccounts):
		v.message.SetText(msgNoAccounts)
	case errors.Is(err, booking.ErrLoginFailed), errors.Is(err, booking.ErrInvalidRole):
		v.message.SetText(msgLoginFailed)
	default:
		v.message.SetText(v.a.storageFailed(err, "login"))
	}
}

type registerView struct {
	a       *App
	login   *loginView
	window  fyne.Window
	role    *widget.Select
	user    *widget.Entry
	pass    *widget.Entry
	spec    *widget.Entry
	message *widget.Label
	save    *widget.Button
}

func newRegisterView(a *App, login *loginView) *registerView {
	v := &registerView{a: a, login: login, window: a.app.NewWindow("Register")}

	v.role = widget.NewSelect(roles, nil)
	v.role.SetSelected(string(model.RolePatient))
	v.user = widget.NewEntry()
	v.pass = widget.NewPasswordEntry()
	v.spec = widget.NewEntry()
	v.spec.SetPlaceHolder(model.DefaultSpecialization)
	v.message = widget.NewLabel("")
	v.save = widget.NewButton("Register", v.submit)

	v.window.SetContent(container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Role", v.role),
			widget.NewFormItem("Username", v.user),
			widget.NewFormItem("Password", v.pass),
			widget.NewFormItem("Specialization", v.spec),
		),
		v.save,
		v.message,
	))
	v.window.Resize(fyne.NewSize(360, 280))
	return v
}

func (v *registerView) submit() {
	_, err := v.a.svc.Register(v.a.ctx(), booking.RegisterInput{
		Role:           model.Role(v.role.Selected),
		Username:       v.user.Text,
		Password:       v.pass.Text,
		Specialization: v.spec.Text,
	})
	if err != nil {
		if errors.Is(err, booking.ErrFieldsRequired) {
			v.message.SetText(msgFieldsRequired)
			return
		}
		if !isInput(err) {
			v.a.log.Error().Err(err).Msg("register failed")
		}
		v.message.SetText(fmt.Sprintf("Error saving: %v", err))
		return
	}
	v.login.message.SetText(msgRegistered)
	v.window.Close()
}
