package main

// These constants hold the "long" description of a subcommand. These get printed when running `--help`, for example.
const (
	descriptionStevedore = `Stevedore parses test results files from various test frameworks, normalizes them into a
single schema, and renders summaries of the outcome.

Supported formats are JUnit XML, pytest reportlog, and Vitest JSON.`

	descriptionParseResults = `'stevedore parse results' parses one or more test results files and prints the
normalized test runs as JSON.

Example use:

	stevedore parse results *.xml`

	descriptionParseUpload = `'stevedore parse upload' unpacks a raw upload envelope (a JSON document holding
base64-encoded, zlib-compressed report files), parses every report inside it, and prints the
normalized test runs as JSON.

Example use:

	stevedore parse upload raw-upload.json --legacy-out legacy.txt`

	descriptionReport = `'stevedore report' parses one or more test results files and renders a markdown summary
of the failed tests. The default 'summary' format lists the failed tests with their stack traces;
the 'compact' format renders a shorter, single-comment table instead.

Example use:

	stevedore report *.xml --output summary.md
	stevedore report *.xml --format compact`
)
