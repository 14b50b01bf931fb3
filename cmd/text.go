package cmd

const DESCRIPTION = `
Cruxd keeps locally installed components up to date. It polls an
Omaha-compatible update server, downloads and stages new component
payloads, and swaps them into place atomically. The daemon exposes a
local control socket and an optional JSON-RPC surface for tooling.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const (
	DaemonDescription = `The daemon command starts the update daemon in the
foreground. It loads the daemon configuration, registers the
configured components and serves the control socket until it
receives an interrupt.

Example:
        cruxd daemon --config /etc/cruxd/cruxd.toml

`
	RegisterDescription = `The register command registers a component with the
running daemon. The public key hash identifies the component on the
update server; the install directory is where unpacked payloads are
swapped into place.

Example:
        cruxd register --name pnacl --pk-hash <64 hex chars> \
            --version 0.1.0 --dir /opt/components/pnacl

`
	CheckDescription = `The check command asks the daemon to check for updates
soon. With a component id it boosts that single component past the
periodic schedule; with --all it triggers a sweep of every
registered component.

Example:
        cruxd check hnimpnehoodheedghdeeijklkeaacbdc
        cruxd check --all

`
	StatusDescription = `The status command prints the current update state of
one component, including versions, the last check time and the last
error if the most recent cycle failed.

Example:
        cruxd status hnimpnehoodheedghdeeijklkeaacbdc

`
	ListDescription = `The list command prints every registered component with
its id, version and current update state.

Example:
        cruxd list

`
	UpdateSetDescription = `The update-set command triggers an immediate update
attempt for a set of components and waits for the whole set to
settle. Only one set runs at a time; further sets queue behind it.

Example:
        cruxd update-set <id> [<id> ...]

`
	HistoryDescription = `The history command prints the recorded update
outcomes of a component from the daemon's outcome journal, newest
first.

Example:
        cruxd history hnimpnehoodheedghdeeijklkeaacbdc --limit 20

`
	WatchDescription = `The watch command subscribes to live update events for
a component and renders its progress through the update pipeline.
Without a component id it watches every component.

Example:
        cruxd watch hnimpnehoodheedghdeeijklkeaacbdc

`
	StopDescription = `The stop command tells the daemon to stop scheduling
update checks. In-flight operations finish and their outcomes are
still recorded; no new cycles start until the daemon restarts.

Example:
        cruxd stop

`
)
