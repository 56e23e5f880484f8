package reporting

const defaultMaxFailures = 5

type Configuration struct {
	// MaxFailures caps how many failed tests are listed in the summary. Defaults to 5.
	MaxFailures int
}

func (c Configuration) maxFailures() int {
	if c.MaxFailures <= 0 {
		return defaultMaxFailures
	}

	return c.MaxFailures
}
