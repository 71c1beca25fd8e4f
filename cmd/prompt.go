// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"forcedlogin/cli/internal/terminal"
)

// signInPrompt shows the sign-in link while the browser flow runs and tidies
// it away once sign-in succeeds.
type signInPrompt struct {
	out         io.Writer
	interactive bool
	spin        bool
	launch      func(url string) error

	printed []string
	spinner *pterm.SpinnerPrinter
}

func newSignInPrompt() *signInPrompt {
	return &signInPrompt{
		out:         os.Stdout,
		interactive: terminal.IsInteractive(),
		spin:        terminal.IsInteractive(),
		launch:      startBrowser,
	}
}

// open prints the link, starts the wait spinner and tries the default browser.
// A browser that fails to start is not an error; the link is on screen.
func (p *signInPrompt) open(url string) error {
	p.printed = []string{"Open this link to complete sign-in:", url, ""}
	pterm.Fprintln(p.out, p.printed[0])
	pterm.Fprintln(p.out, pterm.NewStyle(pterm.FgLightBlue).Sprint(url))
	pterm.Fprintln(p.out)

	if p.spin {
		p.spinner, _ = pterm.DefaultSpinner.WithWriter(p.out).WithRemoveWhenDone(true).Start("Waiting for sign-in in your browser")
	}
	if err := p.launch(url); err != nil {
		logrus.WithError(err).Debug("starting browser")
	}
	return nil
}

// done stops the spinner. On success the printed link is erased from an
// interactive terminal.
func (p *signInPrompt) done(succeeded bool) {
	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}
	if succeeded && p.interactive && len(p.printed) > 0 {
		terminal.ClearPreviousLines(p.out, p.printed...)
	}
	p.printed = nil
}

// startBrowser opens url in the user's default browser without waiting for it.
//   - Windows: rundll32 url.dll,FileProtocolHandler
//   - macOS: open command
//   - Linux: xdg-open command
func startBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
