package store

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"clinic-booking/internal/model"
)

func encodeAccount(u model.UserAccount) string {
	line := string(u.Role) + "," + u.Username + "," + u.Password
	if u.Role == model.RoleDoctor {
		line += "," + u.Specialization
	}
	return line
}

func decodeAccount(line string) (model.UserAccount, bool) {
	p := strings.Split(line, ",")
	if len(p) < 3 {
		return model.UserAccount{}, false
	}
	u := model.UserAccount{Role: model.Role(p[0]), Username: p[1], Password: p[2]}
	if !u.Role.Valid() {
		return model.UserAccount{}, false
	}
	if u.Role == model.RoleDoctor {
		if len(p) >= 4 {
			u.Specialization = p[3]
		}
		if u.Specialization == "" {
			u.Specialization = model.DefaultSpecialization
		}
	}
	return u, true
}

func (f *FileStore) ListAccounts(ctx context.Context) ([]model.UserAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	lines, err := readLines(f.usersPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrAccountsMissing
	}
	if err != nil {
		return nil, err
	}
	out := make([]model.UserAccount, 0, len(lines))
	for _, line := range lines {
		if u, ok := decodeAccount(line); ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// AppendAccount never rewrites the file; accounts are append only.
func (f *FileStore) AppendAccount(ctx context.Context, u model.UserAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return appendLine(f.usersPath, encodeAccount(u))
}
