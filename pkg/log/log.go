// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides structured logging and human-readable console
// reporting for build pipeline runs.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 15 // Width for file type
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation represents one file's outcome in a pipeline stage for logging
type FileOperation struct {
	Path         string // File path (destination)
	Stage        string // Stage name the file passed through (e.g. "minify", "concat")
	Status       string // Operation status text
	IsNew        bool   // Whether the output file is new
	IsModified   bool   // Whether the output file changed
	IsRemoved    bool   // Whether the output file was removed (clean mode)
	IsCached     bool   // Whether the output was served from cache, unchanged
	Replacements int    // Number of replacements made by a text processor, if any
}

// 📦 PipelineOperation represents a whole pipeline run for logging
type PipelineOperation struct {
	Name        string // Pipeline/task name
	Mode        string // Working mode (build/preview/clean/watch)
	Destination string // Output directory
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *PipelineOperation
	operations []FileOperation
	spinners   map[int]*pterm.SpinnerPrinter
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:     zlog,
		console:  console,
		mu:       sync.Mutex{},
		spinners: make(map[int]*pterm.SpinnerPrinter),
	}
}

// 🎯 Zerolog returns the underlying structured logger, for collaborators
// (e.g. pkg/barrier) that report through zerolog rather than l's console
// formatting.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		if op.IsCached {
			symbol = '•'
			symbolColor = color.FgCyan
		} else {
			symbol = '-'
			symbolColor = color.FgYellow
		}
	}

	// Format stage with color
	var stageColor color.Attribute
	switch op.Stage {
	case "":
		stageColor = color.FgBlue
	default:
		stageColor = color.FgCyan
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(stageColor).Sprint(fmt.Sprintf("%-*s", typeWidth, op.Stage)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatFileOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("file", op.Path).
		Str("stage", op.Stage).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_removed", op.IsRemoved).
		Bool("is_cached", op.IsCached).
		Int("replacements", op.Replacements).
		Msg("file operation")
}

// 📝 StartPipeline starts a new pipeline run
func (l *Logger) StartPipeline(ctx context.Context, op PipelineOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[%s %s]\n", op.Mode,
		color.New(color.FgCyan).Sprint(op.Destination))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Mode))

	l.zlog.Info().
		Str("pipeline", op.Name).
		Str("mode", op.Mode).
		Str("destination", op.Destination).
		Msg("starting pipeline run")
}

// 📝 EndPipeline ends the current pipeline run
func (l *Logger) EndPipeline(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("pipeline", l.currentOp.Name).
		Int("files", len(l.operations)).
		Msg("pipeline run complete")

	l.currentOp = nil
	l.operations = nil
}

// 🌀 BeginTask starts a named progress spinner for a barrier task, keyed by id
func (l *Logger) BeginTask(id int, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spinner, err := pterm.DefaultSpinner.WithWriter(l.console).Start(label)
	if err != nil {
		return
	}
	l.spinners[id] = spinner
}

// 🌀 EndTask stops the progress spinner for a barrier task
func (l *Logger) EndTask(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spinner, ok := l.spinners[id]
	if !ok {
		return
	}
	_ = spinner.Stop()
	delete(l.spinners, id)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	weftText := color.New(color.Bold, color.FgCyan).Sprint("weft")
	fmt.Fprintf(l.console, "\n%s %s\n\n", weftText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
