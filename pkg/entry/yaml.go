package entry

// yamlEntry is the intermediate struct for one key/value pair in an
// entry file. The key is the literal byte sequence to match; the value
// is the payload expression (or raw text when QuoteValues is set).
type yamlEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// yamlEntriesFile is the top-level structure of an entry YAML file: an
// "entries" array.
type yamlEntriesFile struct {
	Entries []yamlEntry `yaml:"entries"`
}
