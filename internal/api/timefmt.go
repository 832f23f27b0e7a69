package api

import (
	"time"

	"roombook-client/internal/parse"
)

// localLayout is how the service writes date-times: local, second precision,
// no offset.
const localLayout = "2006-01-02T15:04:05"

func formatLocal(t time.Time) string {
	return t.Format(localLayout)
}

func (b *Backend) parseLocal(raw string) (time.Time, error) {
	t, err := parse.Timestamp(raw, b.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(b.loc), nil
}
