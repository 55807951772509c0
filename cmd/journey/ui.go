package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/journey/pkg/conversation"
	"github.com/xhad/journey/pkg/llm"
)

var (
	userPrompt      = color.New(color.FgGreen).PrintfFunc()
	assistantPrompt = color.New(color.FgCyan).PrintfFunc()
)

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// withSpinner shows a spinner while fn runs.
func withSpinner[T any](description string, fn func() (T, error)) (T, error) {
	spinner := getSpinner(description)
	v, err := fn()
	spinner.Finish()
	return v, err
}

// lineReader reads user input until EOF or an exit word.
type lineReader struct {
	scanner *bufio.Scanner
	label   string
}

func newLineReader(r io.Reader, label string) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r), label: label}
}

// Next prompts and returns the next non-empty line. ok is false when the
// user typed quit or exit, or input ended.
func (lr *lineReader) Next() (line string, ok bool) {
	for {
		userPrompt("\n%s: ", lr.label)
		if !lr.scanner.Scan() {
			return "", false
		}
		line = strings.TrimSpace(lr.scanner.Text())
		if isExit(line) {
			return "", false
		}
		if line != "" {
			return line, true
		}
	}
}

func isExit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	}
	return false
}

func stdinReader(label string) *lineReader {
	return newLineReader(os.Stdin, label)
}

// sendTurn sends input on conv, streaming to stdout when stream is set.
func sendTurn(ctx context.Context, conv *conversation.Conversation, engine *llm.ChatEngine, input, label string, stream bool) error {
	if !stream {
		reply, err := withSpinner(" Thinking...", func() (string, error) {
			return conv.Send(ctx, engine, input)
		})
		if err != nil {
			return err
		}
		assistantPrompt("\n%s: ", label)
		fmt.Println(reply)
		return nil
	}

	assistantPrompt("\n%s: ", label)
	_, err := conv.SendStream(ctx, engine, input, func(chunk string) error {
		fmt.Print(chunk)
		return nil
	})
	fmt.Println()
	return err
}

func printHeader(title string) {
	color.Cyan("\n%s", title)
	color.Cyan("%s", strings.Repeat("=", len([]rune(title))))
}

// countWords is used for progress lines.
func countWords(s string) int {
	return len(strings.Fields(s))
}
