package resilience

import "time"

// ModelSettings guards the language model provider. A model outage only costs
// fallback answers, so the breaker trips after a handful of failures and retries soon.
func ModelSettings() Settings {
	return Settings{
		Name:             "openai",
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 1,
	}
}

// SMSSettings guards the SMS gateway used for booking confirmations
func SMSSettings() Settings {
	return Settings{
		Name:             "twilio",
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 3,
		SuccessThreshold: 1,
	}
}

func (s Settings) withDefaults() Settings {
	if s.Name == "" {
		s.Name = "breaker"
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
	return s
}
