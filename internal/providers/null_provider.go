package providers

const nullProviderName = "unsupported"

// makeNullProvider covers runs outside any recognized CI context and outside a git repository.
func makeNullProvider() Provider {
	return Provider{
		JobTags:      map[string]any{},
		ProviderName: nullProviderName,
	}
}
