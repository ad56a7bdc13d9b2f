package forecast

// Hourly returns the first HourlyWindow entries of the feed unchanged.
// The returned slice does not share backing storage with entries.
func Hourly(entries []Entry) HourlySlice {
	n := min(len(entries), HourlyWindow)
	out := make(HourlySlice, n)
	copy(out, entries[:n])
	return out
}
