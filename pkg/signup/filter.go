package signup

import "time"

// SelectOld returns the records registered at or before threshold, in input
// order. Records with an unparseable registration time are left out.
func SelectOld(records []Record, threshold time.Time) []Record {
	old, _ := Partition(records, threshold)
	return old
}

// Partition splits records into those registered at or before threshold and
// those whose registration time could not be parsed. Records that are simply
// too recent appear in neither slice. Both slices preserve input order.
func Partition(records []Record, threshold time.Time) (old, malformed []Record) {
	for _, r := range records {
		registered, err := r.RegisteredAt()
		if err != nil {
			malformed = append(malformed, r)
			continue
		}
		if !registered.After(threshold) {
			old = append(old, r)
		}
	}
	return old, malformed
}
