package wacz

import "time"

// timestampLayout is the 14-digit compact capture timestamp form.
const timestampLayout = "20060102150405"

// isoLayout is the second-precision UTC form used in page lists and the
// datapackage manifest.
const isoLayout = "2006-01-02T15:04:05Z"

// TimestampToISO converts a 14-digit compact timestamp to ISO-8601
// (UTC, second precision). The conversion is lossless in both directions.
func TimestampToISO(ts string) (string, error) {
	t, err := time.ParseInLocation(timestampLayout, ts, time.UTC)
	if err != nil {
		return "", Errorf(EINVALID, "invalid timestamp %q", ts)
	}
	return t.Format(isoLayout), nil
}

// ISOToTimestamp converts an ISO-8601 date, as found in a WARC-Date
// header, to the 14-digit compact form. Fractional seconds are truncated.
func ISOToTimestamp(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", Errorf(EINVALID, "invalid ISO date %q", iso)
	}
	return t.UTC().Format(timestampLayout), nil
}
