package punch

import "time"

type Record struct {
	ID       int64
	EmpID    string
	PunchIn  time.Time
	PunchOut *time.Time
}

func (r Record) Open() bool {
	return r.PunchOut == nil
}

// Worked returns the closed duration, or the time elapsed until now for an open record.
func (r Record) Worked(now time.Time) time.Duration {
	end := now
	if r.PunchOut != nil {
		end = *r.PunchOut
	}
	if end.Before(r.PunchIn) {
		return 0
	}
	return end.Sub(r.PunchIn)
}
