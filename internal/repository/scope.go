package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// RegionScope narrows admin listings and mutations to the caller's
// authorized region. A super admin gets an unrestricted scope unless they
// opt into a region filter; a regular admin always gets a region-bound
// scope, and an admin with no assigned region gets a scope that matches
// nothing rather than everything.
type RegionScope struct {
	all    bool
	region string
}

// ScopeAll is the unrestricted scope used for super admins.
func ScopeAll() RegionScope {
	return RegionScope{all: true}
}

// ScopeRegion restricts rows to the given region label. An empty label
// produces the fail-closed scope.
func ScopeRegion(region string) RegionScope {
	return RegionScope{region: strings.TrimSpace(region)}
}

func (s RegionScope) All() bool {
	return s.all
}

func (s RegionScope) Region() string {
	return s.region
}

// MatchesNothing reports whether this scope can never match a row.
func (s RegionScope) MatchesNothing() bool {
	return !s.all && s.region == ""
}

// Contains reports whether a free-text location falls inside the scope,
// using the same case-insensitive substring match the SQL predicates use.
func (s RegionScope) Contains(location string) bool {
	if s.all {
		return true
	}
	if s.region == "" {
		return false
	}
	return strings.Contains(strings.ToLower(location), strings.ToLower(s.region))
}

// LocationClause appends the scope's predicate for a free-text location
// column (substring, case-insensitive) to a WHERE clause under
// construction. It returns the SQL fragment, starting with " AND", or ""
// for an unrestricted scope.
func (s RegionScope) LocationClause(column string, args *[]interface{}) string {
	if s.all {
		return ""
	}
	if s.region == "" {
		return " AND 1 = 0"
	}
	*args = append(*args, "%"+s.region+"%")
	return fmt.Sprintf(" AND %s ILIKE $%d", column, len(*args))
}

// RegionClause is like LocationClause but matches a region column exactly,
// which is how user rows are scoped.
func (s RegionScope) RegionClause(column string, args *[]interface{}) string {
	if s.all {
		return ""
	}
	if s.region == "" {
		return " AND 1 = 0"
	}
	*args = append(*args, s.region)
	return fmt.Sprintf(" AND %s = $%d", column, len(*args))
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, e.g. the partial index guarding one PENDING request per
// provider.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
