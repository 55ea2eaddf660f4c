package booking

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/model"
	"clinic-booking/internal/store"
)

type RegisterInput struct {
	Role           model.Role `json:"role"`
	Username       string     `json:"username"`
	Password       string     `json:"password"`
	Specialization string     `json:"specialization"`
}

// Register appends a new account. Usernames are not checked for
// uniqueness; login matches the first fitting line.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.UserAccount, error) {
	u := model.UserAccount{
		Role:     model.Role(strings.TrimSpace(string(in.Role))),
		Username: strings.TrimSpace(in.Username),
		Password: strings.TrimSpace(in.Password),
	}
	if u.Role == "" || u.Username == "" || u.Password == "" {
		return model.UserAccount{}, ErrFieldsRequired
	}
	if !u.Role.Valid() {
		return model.UserAccount{}, ErrInvalidRole
	}
	if u.Role == model.RoleDoctor {
		u.Specialization = strings.TrimSpace(in.Specialization)
		if u.Specialization == "" {
			u.Specialization = model.DefaultSpecialization
		}
	}
	if err := validField(u.Username, u.Password, u.Specialization); err != nil {
		return model.UserAccount{}, err
	}

	stored, err := s.hasher.Hash(u.Password)
	if err != nil {
		return model.UserAccount{}, err
	}
	rec := u
	rec.Password = stored
	if err := s.accounts.AppendAccount(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("username", u.Username).Msg("register failed")
		return model.UserAccount{}, err
	}

	s.log.Info().Str("role", string(u.Role)).Str("username", u.Username).Msg("account registered")
	u.Password = ""
	return u, nil
}

// Authenticate scans the accounts in stored order and returns a session for
// the first one matching role, username and password.
func (s *Service) Authenticate(ctx context.Context, role model.Role, username, password string) (model.Session, error) {
	if role == "" || username == "" || password == "" {
		return model.Session{}, ErrFieldsRequired
	}
	accounts, err := s.accounts.ListAccounts(ctx)
	if errors.Is(err, store.ErrAccountsMissing) {
		return model.Session{}, ErrNoAccounts
	}
	if err != nil {
		return model.Session{}, err
	}
	for _, u := range accounts {
		if u.Role == role && u.Username == username && s.hasher.Check(u.Password, password) {
			s.log.Info().Str("role", string(role)).Str("username", username).Msg("login")
			return model.Session{Role: role, Username: username}, nil
		}
	}
	s.log.Warn().Str("role", string(role)).Str("username", username).Msg("login failed")
	return model.Session{}, ErrLoginFailed
}

// Doctors lists registered doctors in file order, passwords cleared.
func (s *Service) Doctors(ctx context.Context) ([]model.UserAccount, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil && !errors.Is(err, store.ErrAccountsMissing) {
		return nil, err
	}
	var out []model.UserAccount
	for _, u := range accounts {
		if u.Role == model.RoleDoctor {
			u.Password = ""
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return []model.UserAccount{FallbackDoctor}, nil
	}
	return out, nil
}
