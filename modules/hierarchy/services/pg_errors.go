package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// mapPgError translates driver-level failures into ServiceErrors. Domain
// sentinels and already-mapped errors pass through untouched.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) || errors.Is(err, tree.ErrNotFound) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return tree.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return newServiceError(http.StatusConflict, "HIERARCHY_CODE_CONFLICT", "code already exists at this level", err)
	case "23503": // foreign_key_violation
		return newServiceError(http.StatusUnprocessableEntity, "HIERARCHY_PARENT_NOT_FOUND", "referenced node does not exist", err)
	default:
		return newServiceError(http.StatusInternalServerError, "HIERARCHY_INTERNAL", fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}
