package models

// StatusFilter selects the student subset returned by the directory listing
type StatusFilter string

// StatusFilter constants. FilterDropped is part of the accepted vocabulary for
// compatibility with existing clients but has no backing data: there is no
// stored dropped flag, so the directory rejects it instead of silently
// returning an unfiltered list.
const (
	FilterAll       StatusFilter = "All"
	FilterActive    StatusFilter = "Active"
	FilterGraduated StatusFilter = "Graduated"
	FilterDropped   StatusFilter = "Dropped"
)
