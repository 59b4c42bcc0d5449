package model

// Record is implemented by every entity the console proxies from the
// upstream parcel service. Ids are int64: remote-assigned ids are small
// integers, fallback-generated ids are millisecond timestamps.
type Record interface {
	RecordID() int64
	SetRecordID(id int64)
}
