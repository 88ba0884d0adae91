package ui

// View represents different UI views
type View int

const (
	ViewEditor View = iota
	ViewConfirm
	ViewHelp
)

// StatusKind selects how a status line is styled
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// Status is the message shown under the plot
type Status struct {
	Text string
	Kind StatusKind
}
