package store

import (
	"context"
	"database/sql"
	"fmt"

	"clinic-booking/internal/model"
)

func (s *DBStore) ListAccounts(ctx context.Context) ([]model.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, username, password, COALESCE(specialization, '')
		 FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserAccount{}
	for rows.Next() {
		var u model.UserAccount
		var role string
		if err := rows.Scan(&role, &u.Username, &u.Password, &u.Specialization); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		if u.Role == model.RoleDoctor && u.Specialization == "" {
			u.Specialization = model.DefaultSpecialization
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *DBStore) AppendAccount(ctx context.Context, u model.UserAccount) error {
	spec := sql.NullString{String: u.Specialization, Valid: u.Role == model.RoleDoctor}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (role, username, password, specialization) VALUES ($1,$2,$3,$4)`,
		string(u.Role), u.Username, u.Password, spec,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
