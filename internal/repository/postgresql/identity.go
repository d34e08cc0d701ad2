package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/identity"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

// roleProviderImpl answers role questions from the employees table. It is
// the default identity boundary; deployments fronted by a directory
// service can swap in their own identity.RoleProvider.
type roleProviderImpl struct {
	db *database.DB
}

func NewRoleProvider(db *database.DB) identity.RoleProvider {
	return &roleProviderImpl{db: db}
}

func (r *roleProviderImpl) IsLeaderFor(ctx context.Context, actorID, ownerID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// Leader for the owner's branch, or an admin (admins may act at
	// either stage)
	query := `
		SELECT a.role, a.branch_id, o.branch_id
		FROM employees a, employees o
		WHERE a.id = $1 AND o.id = $2
	`

	var actorRole, actorBranch, ownerBranch string
	err := q.QueryRow(ctx, query, actorID, ownerID).Scan(&actorRole, &actorBranch, &ownerBranch)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, identity.ErrEmployeeNotFound
		}
		return false, err
	}

	if identity.Role(actorRole) == identity.RoleAdmin {
		return true, nil
	}
	return identity.Role(actorRole) == identity.RoleLeader && actorBranch == ownerBranch, nil
}

func (r *roleProviderImpl) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var role string
	err := q.QueryRow(ctx, `SELECT role FROM employees WHERE id = $1`, actorID).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, identity.ErrEmployeeNotFound
		}
		return false, err
	}

	return identity.Role(role) == identity.RoleAdmin, nil
}
