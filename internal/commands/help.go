package commands

// UsageTemplate is the usage text printed by "todo help", "todo help <command>"
// and --help.
const UsageTemplate = `Usage:
  todo                                       List tasks
  todo list [common flags] [--format text|json]
  todo add [common flags] <text...>
  todo edit [common flags] <ref> <text...>
  todo rm [common flags] <ref>
  todo ui [common flags]
  todo serve [common flags] [--addr <host:port>] [--store memory|sqlite] [--db-path <file>]
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

A <ref> is a position from the listing (1, 2, ...) or a literal id (id:<id>).

Common flags:
  --config <dir>        Override config directory
  --base-url <url>      Base URL of the REST collection (env TODO_BASE_URL)
  --backend <name>      rest or googletasks
  --logger <type>       default or json
  --timeout <duration>  Timeout of each remote call (0 for none)
  --quiet               Suppress informational output
  --debug               Print debug logs to stderr
`
