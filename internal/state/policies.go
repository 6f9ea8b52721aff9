package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuthoredPolicy is a policy in the workspace.
type AuthoredPolicy struct {
	ID        string      `json:"id" yaml:"id"`
	Position  int         `json:"position" yaml:"position"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`
	Policy    core.Policy `json:"policy" yaml:"policy"`
}

type policyRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Position  int    `db:"position"`
	Body      string `db:"body"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r policyRow) decode() (AuthoredPolicy, error) {
	var p core.Policy
	if err := json.Unmarshal([]byte(r.Body), &p); err != nil {
		return AuthoredPolicy{}, fmt.Errorf("decode policy %q: %w", r.Name, err)
	}
	p.Name = r.Name
	return AuthoredPolicy{
		ID:        r.ID,
		Position:  r.Position,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedAt).UTC(),
		Policy:    p,
	}, nil
}

const policyColumns = `id, name, position, body, created_at, updated_at`

// ListPolicies returns the authored policies in creation order.
func (s *Store) ListPolicies(ctx context.Context) ([]AuthoredPolicy, error) {
	var rows []policyRow
	err := s.db.SelectContext(ctx, &rows, `SELECT `+policyColumns+` FROM mod_policies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}

	out := make([]AuthoredPolicy, 0, len(rows))
	for _, r := range rows {
		ap, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

// Policies returns the authored policy records in creation order.
func (s *Store) Policies(ctx context.Context) ([]core.Policy, error) {
	list, err := s.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Policy, len(list))
	for i, ap := range list {
		out[i] = ap.Policy
	}
	return out, nil
}

// GetPolicy returns the authored policy called name.
func (s *Store) GetPolicy(ctx context.Context, name string) (*AuthoredPolicy, error) {
	return getPolicy(ctx, s.db, name)
}

func getPolicy(ctx context.Context, q sqlx.QueryerContext, name string) (*AuthoredPolicy, error) {
	var row policyRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+policyColumns+` FROM mod_policies WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	ap, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func nameTaken(ctx context.Context, q sqlx.QueryerContext, name, exceptID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM mod_policies WHERE name = ? AND id != ?`, name, exceptID)
	if err != nil {
		return false, fmt.Errorf("failed to check policy name: %w", err)
	}
	return n > 0, nil
}

func encodePolicy(p core.Policy) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode policy %q: %w", p.Name, err)
	}
	return string(body), nil
}

// AddPolicy appends p to the workspace.
func (s *Store) AddPolicy(ctx context.Context, p core.Policy) (*AuthoredPolicy, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ap, err := insertPolicy(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Debug("policy added", "name", p.Name, "id", ap.ID)
	return ap, nil
}

func insertPolicy(ctx context.Context, tx *sqlx.Tx, p core.Policy) (*AuthoredPolicy, error) {
	if p.Name == "" {
		return nil, errors.New("policy name is required")
	}
	taken, err := nameTaken(ctx, tx, p.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePolicy, p.Name)
	}

	var next int
	if err := tx.GetContext(ctx, &next, `SELECT COALESCE(MAX(position), 0) + 1 FROM mod_policies`); err != nil {
		return nil, fmt.Errorf("failed to allocate position: %w", err)
	}

	body, err := encodePolicy(p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := policyRow{
		ID:        uuid.NewString(),
		Name:      p.Name,
		Position:  next,
		Body:      body,
		CreatedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}
	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO mod_policies (`+policyColumns+`)
		 VALUES (:id, :name, :position, :body, :created_at, :updated_at)`, row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert policy: %w", err)
	}

	ap, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// UpdatePolicy replaces the policy called name with p. p.Name may differ,
// which renames the policy; its position is kept.
func (s *Store) UpdatePolicy(ctx context.Context, name string, p core.Policy) (*AuthoredPolicy, error) {
	if p.Name == "" {
		return nil, errors.New("policy name is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getPolicy(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	taken, err := nameTaken(ctx, tx, p.Name, current.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePolicy, p.Name)
	}

	body, err := encodePolicy(p)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE mod_policies SET name = ?, body = ?, updated_at = ? WHERE id = ?`,
		p.Name, body, now.UnixMilli(), current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	current.Policy = p
	current.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	s.logger.Debug("policy updated", "name", name, "new_name", p.Name)
	return current, nil
}

// DeletePolicy removes the policy called name.
func (s *Store) DeletePolicy(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mod_policies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
	}
	s.logger.Debug("policy deleted", "name", name)
	return nil
}

// ImportPolicies appends policies in order. With replace set the workspace
// is cleared first. The import is all or nothing.
func (s *Store) ImportPolicies(ctx context.Context, policies []core.Policy, replace bool) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM mod_policies`); err != nil {
			return 0, fmt.Errorf("failed to clear policies: %w", err)
		}
	}
	for _, p := range policies {
		if _, err := insertPolicy(ctx, tx, p); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Info("policies imported", "count", len(policies), "replace", replace)
	return len(policies), nil
}
