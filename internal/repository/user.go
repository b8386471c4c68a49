package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/sheet"
)

var ErrUserNotFound = errors.New("user not found")

// The master sheet carries one row per account: username in the first
// column, role label in the second. It is the single source of truth for
// roles; nothing is inferred from the username itself.
const (
	masterUsernameCol = 0
	masterRoleCol     = 1
)

type UserRepository struct {
	client *sheet.Client
	cfg    config.UpstreamConfig
}

func NewUserRepository(client *sheet.Client, cfg config.UpstreamConfig) *UserRepository {
	return &UserRepository{client: client, cfg: cfg}
}

// GetViewer resolves a username against the master roles sheet. The match is
// trimmed and case-insensitive; the returned identity uses the sheet's own
// spelling. Unknown usernames return ErrUserNotFound.
func (r *UserRepository) GetViewer(ctx context.Context, username string) (*model.Viewer, error) {
	table, err := r.client.FetchTable(ctx, r.cfg.MasterSheet)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(username))
	if want == "" {
		return nil, ErrUserNotFound
	}

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		name := row.Str(masterUsernameCol)
		if strings.ToLower(name) != want {
			continue
		}

		role := model.RoleStaff
		if strings.EqualFold(row.Str(masterRoleCol), string(model.RoleAdmin)) {
			role = model.RoleAdmin
		}
		return &model.Viewer{Identity: name, Role: role}, nil
	}

	return nil, ErrUserNotFound
}
