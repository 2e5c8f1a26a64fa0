package model

import "time"

// VacationEntitlement stores how many vacation days a user has been
// granted for one calendar year. A unique key on (user_id, year)
// guarantees at most one row per pair; granting again for the same
// year updates TotalDays in place.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the entitlement.
//  Year      – calendar year the days apply to.
//  TotalDays – total days granted for that year.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type VacationEntitlement struct {
	ID        int64     // vacation_entitlements.id
	UserID    int64     // vacation_entitlements.user_id
	Year      int       // vacation_entitlements.year
	TotalDays int       // vacation_entitlements.total_days
	CreatedAt time.Time // vacation_entitlements.created_at
	UpdatedAt time.Time // vacation_entitlements.updated_at
}

// VacationRecord is one booked, contiguous vacation period. StartDate
// and EndDate form a closed interval: both endpoints are vacation days,
// so DaysCount is end-start+1 and is always at least 1. Year is the
// year of the start date. Records are only ever created, never updated.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user the vacation belongs to.
//  StartDate – first day of the vacation (date only, UTC midnight).
//  EndDate   – last day of the vacation, inclusive.
//  DaysCount – derived length of the interval in days.
//  Year      – derived year of StartDate.
//  Note      – optional free-text note.
//  CreatedAt – timestamp of creation.
type VacationRecord struct {
	ID        int64     // vacation_records.id
	UserID    int64     // vacation_records.user_id
	StartDate time.Time // vacation_records.start_date
	EndDate   time.Time // vacation_records.end_date
	DaysCount int       // vacation_records.days_count
	Year      int       // vacation_records.year
	Note      string    // vacation_records.note
	CreatedAt time.Time // vacation_records.created_at
}
