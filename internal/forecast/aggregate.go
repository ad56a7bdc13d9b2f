package forecast

// Aggregate folds a chronologically ordered feed into per-day summaries.
//
// Days are emitted in first-seen order. The first day (the one holding the
// earliest sample) is reserved for the hourly view and dropped, and the
// result is capped at MaxDailyDays. Out-of-order input is not reordered.
func Aggregate(entries []Entry, clock Clock) []DailyAggregate {
	var (
		order  []string
		byDay  = make(map[string]*DailyAggregate)
		result = make([]DailyAggregate, 0, MaxDailyDays)
	)

	for _, e := range entries {
		key := clock.DayKey(e.Timestamp)

		day, ok := byDay[key]
		if !ok {
			byDay[key] = &DailyAggregate{
				DayKey:                   key,
				Timestamp:                e.Timestamp,
				TempMax:                  e.TempMax,
				TempMin:                  e.TempMin,
				WeatherCode:              e.WeatherCode,
				Humidity:                 e.Humidity,
				WindSpeed:                e.WindSpeed,
				PrecipitationProbability: e.PrecipitationProbability,
			}
			order = append(order, key)
			continue
		}

		if e.TempMax > day.TempMax {
			day.TempMax = e.TempMax
		}
		if e.TempMin < day.TempMin {
			day.TempMin = e.TempMin
		}
	}

	if len(order) <= 1 {
		return result
	}

	for _, key := range order[1:] {
		if len(result) >= MaxDailyDays {
			break
		}
		result = append(result, *byDay[key])
	}
	return result
}
