package tui

type View int

const (
	ViewResults View = iota
	ViewDetail
)
