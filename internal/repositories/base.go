package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// notFound turns sql.ErrNoRows into a typed NotFoundError.
func notFound(err error, resource string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, ID: id, Err: err}
	}
	return err
}

// expectOne fails with NotFoundError when an UPDATE/DELETE matched no row.
func expectOne(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// deleteErr maps a blocked delete to ConflictError.
func deleteErr(err error, resource string) error {
	if intdb.IsReferenced(err) {
		return domain.ConflictError{Resource: resource, Msg: "still referenced by other records", Err: err}
	}
	return err
}

// where accumulates AND-ed conditions for list queries.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET and returns the args including them.
func page(w where, p domain.Pagination) (string, []any) {
	args := append(append([]any{}, w.args...), p.Limit(), p.Offset())
	return w.String(), args
}

func likePattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}
