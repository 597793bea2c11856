package tool

// Tool names understood by the bridge.
const (
	NameRunBash   = "run_bash"
	NameWriteFile = "write_file"
)

// Declarations returns the schemas advertised to the model, in a stable order.
func Declarations() []Declaration {
	return []Declaration{
		{
			Name:        NameRunBash,
			Description: "Execute a REAL bash command on the user's device. Use for listing files, reading content, running scripts, or installing packages.",
			Parameters: Object(
				StringParam("command", "The full bash command to run."),
			),
		},
		{
			Name:        NameWriteFile,
			Description: "Write content to a real file on the device. Creates missing parent directories.",
			Parameters: Object(
				StringParam("path", "File path relative to workspace"),
				StringParam("content", "Full content of the file"),
			),
		},
	}
}

// Lookup returns the declaration with the given name.
func Lookup(name string) (Declaration, bool) {
	for _, d := range Declarations() {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}
