package weather

// Normalize reconciles the two payload shapes into one context. It performs no I/O and never
// fails; fields missing upstream stay nil.
func Normalize(payload RawPayload, location string) NormalizedContext {
	out := NormalizedContext{Location: location}

	switch payload.Kind {
	case PayloadForecast:
		if len(payload.Forecast) == 0 {
			out.Current = currentFrom(Reading{})
			return out
		}
		out.Current = currentFrom(payload.Forecast[0])
		if tail := payload.Forecast[1:]; len(tail) > 0 {
			summary := summaryFrom(tail[0])
			out.ForecastSummary = &summary
		}
	default:
		var reading Reading
		if payload.Current != nil {
			reading = *payload.Current
		}
		out.Current = currentFrom(reading)
	}
	return out
}

func currentFrom(r Reading) CurrentConditions {
	uv := 0.0
	if r.UV != nil {
		uv = *r.UV
	}
	return CurrentConditions{
		Temperature: copyFloat(r.TemperatureValue()),
		FeelsLike:   copyFloat(r.FeelsLike),
		Condition:   r.Condition,
		Description: r.Description,
		WindSpeed:   copyFloat(r.WindSpeed),
		Humidity:    copyFloat(r.Humidity),
		UVIndex:     uv,
		// The provider does not say whether the sun is up.
		IsDay: true,
	}
}

func summaryFrom(r Reading) ForecastSummary {
	temp := r.TemperatureValue()
	return ForecastSummary{
		Condition:   r.Condition,
		Description: r.Description,
		TempMin:     copyFloat(firstFloat(r.TempMin, temp)),
		TempMax:     copyFloat(firstFloat(r.TempMax, temp)),
		Humidity:    copyFloat(r.Humidity),
	}
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// copyFloat detaches the context from the payload so neither can mutate the other.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
