package store

import (
	"strings"
	"time"
)

// Filter building blocks compiled to SQL WHERE clauses with `?` args.
// Supported operators: equality, Contains (substring), In (set membership),
// Gte/Lte/Lt ranges, null checks, and logical And/Or/Not nesting.

// StringFilter matches a text column.
type StringFilter struct {
	Equals   *string
	Contains *string
	In       []string
}

func (f StringFilter) clause(column string) (string, []any) {
	var parts []string
	var args []any
	if f.Equals != nil {
		parts = append(parts, column+" = ?")
		args = append(args, *f.Equals)
	}
	if f.Contains != nil {
		parts = append(parts, column+" LIKE ?")
		args = append(args, "%"+*f.Contains+"%")
	}
	if len(f.In) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.In)), ", ")
		parts = append(parts, column+" IN ("+placeholders+")")
		for _, v := range f.In {
			args = append(args, v)
		}
	}
	return strings.Join(parts, " AND "), args
}

// TimeFilter matches a datetime column. IsNull is tri-state:
// nil means "no null condition".
type TimeFilter struct {
	Equals *time.Time
	Gte    *time.Time
	Lte    *time.Time
	Lt     *time.Time
	IsNull *bool
}

func (f TimeFilter) clause(column string) (string, []any) {
	var parts []string
	var args []any
	if f.Equals != nil {
		parts = append(parts, column+" = ?")
		args = append(args, *f.Equals)
	}
	if f.Gte != nil {
		parts = append(parts, column+" >= ?")
		args = append(args, *f.Gte)
	}
	if f.Lte != nil {
		parts = append(parts, column+" <= ?")
		args = append(args, *f.Lte)
	}
	if f.Lt != nil {
		parts = append(parts, column+" < ?")
		args = append(args, *f.Lt)
	}
	if f.IsNull != nil {
		if *f.IsNull {
			parts = append(parts, column+" IS NULL")
		} else {
			parts = append(parts, column+" IS NOT NULL")
		}
	}
	return strings.Join(parts, " AND "), args
}

// ContactFilter selects contact rows. Zero value matches everything.
type ContactFilter struct {
	Name     StringFilter
	Email    StringFilter
	Mobile   StringFilter
	Address  StringFilter
	Birthday TimeFilter

	And []ContactFilter
	Or  []ContactFilter
	Not []ContactFilter
}

func (f ContactFilter) clause() (string, []any) {
	var parts []string
	var args []any

	appendPart := func(clause string, clauseArgs []any) {
		if clause == "" {
			return
		}
		parts = append(parts, clause)
		args = append(args, clauseArgs...)
	}

	c, a := f.Name.clause("name")
	appendPart(c, a)
	c, a = f.Email.clause("email")
	appendPart(c, a)
	c, a = f.Mobile.clause("mobile")
	appendPart(c, a)
	c, a = f.Address.clause("address")
	appendPart(c, a)
	c, a = f.Birthday.clause("birthday")
	appendPart(c, a)

	for _, sub := range f.And {
		c, a := sub.clause()
		if c != "" {
			appendPart("("+c+")", a)
		}
	}
	if len(f.Or) > 0 {
		var orParts []string
		var orArgs []any
		for _, sub := range f.Or {
			c, a := sub.clause()
			if c != "" {
				orParts = append(orParts, "("+c+")")
				orArgs = append(orArgs, a...)
			}
		}
		if len(orParts) > 0 {
			appendPart("("+strings.Join(orParts, " OR ")+")", orArgs)
		}
	}
	for _, sub := range f.Not {
		c, a := sub.clause()
		if c != "" {
			appendPart("NOT ("+c+")", a)
		}
	}

	return strings.Join(parts, " AND "), args
}

// where renders the filter as a full WHERE clause, or "" when empty.
func (f ContactFilter) where() (string, []any) {
	clause, args := f.clause()
	if clause == "" {
		return "", nil
	}
	return " WHERE " + clause, args
}

// MemberFilter selects member rows. FavoritesSome / FavoritesNone express
// relation existence against the favorites join table.
type MemberFilter struct {
	Email    StringFilter
	Nickname StringFilter

	FavoritesSome bool
	FavoritesNone bool
}

func (f MemberFilter) where() (string, []any) {
	var parts []string
	var args []any

	if c, a := f.Email.clause("email"); c != "" {
		parts = append(parts, c)
		args = append(args, a...)
	}
	if c, a := f.Nickname.clause("nickname"); c != "" {
		parts = append(parts, c)
		args = append(args, a...)
	}
	if f.FavoritesSome {
		parts = append(parts, "EXISTS (SELECT 1 FROM favorites f WHERE f.member_id = members.member_id)")
	}
	if f.FavoritesNone {
		parts = append(parts, "NOT EXISTS (SELECT 1 FROM favorites f WHERE f.member_id = members.member_id)")
	}

	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// Order is one ORDER BY term. Column names are validated against a
// per-entity whitelist before being interpolated.
type Order struct {
	Column string
	Desc   bool
}

var contactOrderColumns = map[string]bool{
	"ab_id":      true,
	"name":       true,
	"email":      true,
	"birthday":   true,
	"created_at": true,
}

// orderBy renders an ORDER BY clause, dropping non-whitelisted columns.
func orderBy(orders []Order, allowed map[string]bool) string {
	var terms []string
	for _, o := range orders {
		if !allowed[o.Column] {
			continue
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		terms = append(terms, o.Column+dir)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}
