package main

import (
	tea "github.com/charmbracelet/bubbletea"

	agruntime "github.com/gosuda/agscript/runtime"
)

type appConfig struct {
	logLevel  string
	logFormat string
	logFile   string

	plain     bool
	lenient   bool
	keepGoing bool
	history   string
}

type vmStartedMsg struct {
	events <-chan tea.Msg
	quit   chan struct{}
}

type vmOutputMsg struct {
	text string
}

// vmDialogMsg blocks the script until ack is closed by the frontend.
type vmDialogMsg struct {
	title string
	body  string
	isErr bool
	ack   chan struct{}
}

type vmButtonMsg struct {
	name    string
	label   string
	onClick func()
}

type vmLoopMsg struct{}

type vmDoneMsg struct {
	res agruntime.RunResult
}

type vmPollMsg struct{}

type clickDoneMsg struct {
	name string
}

type buttonEntry struct {
	name    string
	label   string
	onClick func()
}
