package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "A layered project template composer"
	MsgComposeShort   = "Compose and write a project from the layer set"
	MsgValidateShort  = "Validate one configuration without writing anything"
	MsgEnumerateShort = "List every legal configuration"
	MsgMatrixShort    = "Compose every legal configuration and report failures"
	MsgLayersShort    = "List the layers in merge order"
	MsgLayersLong     = "List displays all layers found under the layers root, sorted by merge priority."
	MsgVersionShort   = "Print version information"
	MsgVersionLong    = "Print detailed version information including commit hash and build date"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview changes without writing them"
	MsgFlagFormat     = "Output format: auto, term, text, json"
	MsgFlagLayersRoot = "Layers root directory (default: $STRATA_LAYERS_ROOT or ./layers)"
	MsgFlagLayer      = "Layer to include (repeatable; default: every layer under the root)"
	MsgFlagSet        = "Set a configuration variable as name=value (repeatable)"
	MsgFlagOutput     = "Directory to write the composed project into"
	MsgFlagZip        = "Write the composed project as a zip archive instead"
	MsgFlagNoInput    = "Never prompt; fail when a required variable is missing"
	MsgFlagWorkers    = "Number of parallel workers (0 = one per CPU)"

	// Error messages
	MsgErrInitPaths = "failed to initialize paths: %w"
	MsgErrBadSet    = "invalid --set %q: want name=value"
	MsgErrNoOutput  = "either --output or --zip is required (or use --dry-run)"
)
