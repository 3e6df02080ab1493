package social

import "time"

// User as this core sees it: display data plus presence bookkeeping.
// Registration and credentials live in the auth service.
type User struct {
	ID       int64      `db:"id"`
	Name     string     `db:"name"`
	Birthday *time.Time `db:"birthday"`
	LastSeen *time.Time `db:"last_seen"`
}

// HasBirthday reports whether the user's birthday falls on the given
// month/day, year-agnostic.
func (u User) HasBirthday(month time.Month, day int) bool {
	if u.Birthday == nil {
		return false
	}
	return u.Birthday.Month() == month && u.Birthday.Day() == day
}
